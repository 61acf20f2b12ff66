package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/wesleyorama2/usercheck/internal/suite"
)

// ConsoleTestLogger prints case progress as the suite runs.
type ConsoleTestLogger struct {
	Writer               io.Writer
	NoColor              bool
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) scheme() *ColorScheme {
	return SchemeFor(c.NoColor)
}

func (c *ConsoleTestLogger) TestStarted(id suite.TestID) {
	fmt.Fprintf(c.Writer, "[%s]\n", c.scheme().Highlight.Sprint(id))
}

func (c *ConsoleTestLogger) TestError(id suite.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Writer, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id suite.TestID, failed bool, debugOutput suite.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Writer, "  %s FAILED: %s\n", ErrorIcon(c.NoColor), id)
	} else {
		fmt.Fprintf(c.Writer, "  %s %s\n", SuccessIcon(c.NoColor), c.scheme().Success.Sprint("PASSED"))
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Writer, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id suite.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Writer, "  %s SKIPPED: %s\n", SkipIcon(c.NoColor), id)
	} else {
		fmt.Fprintf(c.Writer, "  %s SKIPPED: %s (%s)\n", SkipIcon(c.NoColor), id, reason)
	}
}

// PrintResults writes the end-of-run summary.
func PrintResults(w io.Writer, results suite.Results, noColor bool) {
	scheme := SchemeFor(noColor)
	passed, failed, skipped := results.Counts()

	if len(results.Failures) > 0 {
		fmt.Fprintln(w, scheme.Error.Sprint("FAILED TESTS:"))
		for _, f := range results.Failures {
			fmt.Fprintf(w, "  %s %s\n", ErrorIcon(noColor), f.TestID)
		}
		fmt.Fprintln(w)
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped)
	if results.OK() {
		fmt.Fprintf(w, "%s All tests passed (%s)\n", SuccessIcon(noColor), summary)
	} else {
		fmt.Fprintf(w, "%s %s\n", ErrorIcon(noColor), scheme.Error.Sprint(summary))
	}
}
