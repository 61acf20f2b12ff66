package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/usercheck/internal/cases"
	"github.com/wesleyorama2/usercheck/internal/config"
	"github.com/wesleyorama2/usercheck/internal/output"
	"github.com/wesleyorama2/usercheck/internal/schemas"
	"github.com/wesleyorama2/usercheck/internal/suite"
)

func newRunCmd() *cobra.Command {
	var filters suite.RegexFilters

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the contract cases against the users API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(cmd, filters)
		},
	}

	flags := runCmd.Flags()
	addFixtureFlags(flags)
	flags.StringArrayP("header", "H", []string{}, "extra header for every request (can be used multiple times)")
	flags.Bool("performance", false, "also run the latency cases")
	flags.Duration("latency-budget", 0, "latency budget (default: LATENCY_BUDGET_S seconds, or 2s)")
	flags.Int("burst", config.DefaultBurstSize, "number of requests in the burst latency case")
	flags.String("schema-dir", "", "directory with Schema Documents replacing the built-in ones")
	flags.Var(&filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	flags.Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	flags.Bool("debug", false, "enable debug logging for failed tests")
	flags.Bool("debug-all", false, "enable debug logging for all tests")
	flags.BoolP("verbose", "v", false, "print every request and response")
	flags.StringP("format", "o", string(output.FormatText), "summary format: text, json or yaml")

	return runCmd
}

func runCases(cmd *cobra.Command, filters suite.RegexFilters) error {
	formatName, _ := cmd.Flags().GetString("format")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	debugAll, _ := cmd.Flags().GetBool("debug-all")
	noColorFlag, _ := cmd.Flags().GetBool("no-color")
	headerValues, _ := cmd.Flags().GetStringArray("header")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(headerValues)
	if err != nil {
		return err
	}
	settings.Headers = config.MergeHeaders(settings.Headers, headers)

	set, err := schemas.Open(settings.SchemaDir)
	if err != nil {
		return err
	}

	// Keep stdout clean for machine-readable summaries.
	out := cmd.OutOrStdout()
	progress := out
	if format != output.FormatText {
		progress = cmd.ErrOrStderr()
	}
	noColor := output.ShouldDisableColor(progress, noColorFlag)

	client := newClient(settings)
	fixture := &cases.Fixture{
		Client:        client,
		Schemas:       set,
		LatencyBudget: settings.LatencyBudget,
		BurstSize:     settings.BurstSize,
	}
	if verbose {
		fixture.OnExchange = output.NewFormatter(true, noColor).Exchanges(progress, client)
	}

	var tags []string
	if settings.Performance {
		tags = append(tags, cases.TagPerformance)
	}

	fmt.Fprintf(progress, "Running usercheck against %s\n\n", settings.BaseURL)
	suite.DescribeFilters(progress, filters, tags)

	start := time.Now()
	results := cases.Run(fixture, suite.Options{
		Filter: filters.AsFilter,
		Logger: &output.ConsoleTestLogger{
			Writer:               progress,
			NoColor:              noColor,
			DebugOutputOnFailure: debug || debugAll,
			DebugOutputOnSuccess: debugAll,
		},
		EnabledTags: tags,
		Context:     cmd.Context(),
	})
	elapsed := time.Since(start)

	fmt.Fprintln(progress)
	output.PrintResults(progress, results, noColor)

	summary := output.NewSummary("usercheck", settings.BaseURL, results, elapsed, time.Now())
	if err := output.WriteSummary(out, format, summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if !results.OK() {
		return ErrTestsFailed
	}
	return nil
}
