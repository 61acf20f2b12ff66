package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/usercheck/internal/suite"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat accepts "text", "json" or "yaml", case-insensitively.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Status values of a case in a Summary.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// CaseSummary is one case in the machine-readable summary.
type CaseSummary struct {
	ID         string   `json:"id" yaml:"id"`
	Status     string   `json:"status" yaml:"status"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	DurationMs int64    `json:"durationMs" yaml:"durationMs"`
	SkipReason string   `json:"skipReason,omitempty" yaml:"skipReason,omitempty"`
	Errors     []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Summary is the machine-readable form of a run.
type Summary struct {
	Suite      string        `json:"suite" yaml:"suite"`
	BaseURL    string        `json:"baseUrl" yaml:"baseUrl"`
	Total      int           `json:"totalTests" yaml:"totalTests"`
	Passed     int           `json:"passedTests" yaml:"passedTests"`
	Failed     int           `json:"failedTests" yaml:"failedTests"`
	Skipped    int           `json:"skippedTests" yaml:"skippedTests"`
	DurationMs int64         `json:"durationMs" yaml:"durationMs"`
	Timestamp  string        `json:"timestamp" yaml:"timestamp"`
	Tests      []CaseSummary `json:"tests" yaml:"tests"`
}

// NewSummary converts suite results.
func NewSummary(name, baseURL string, results suite.Results, duration time.Duration, finished time.Time) Summary {
	passed, failed, skipped := results.Counts()
	summary := Summary{
		Suite:      name,
		BaseURL:    baseURL,
		Total:      len(results.Tests),
		Passed:     passed,
		Failed:     failed,
		Skipped:    skipped,
		DurationMs: duration.Milliseconds(),
		Timestamp:  finished.UTC().Format(time.RFC3339),
		Tests:      make([]CaseSummary, 0, len(results.Tests)),
	}

	for _, r := range results.Tests {
		cs := CaseSummary{
			ID:         r.TestID.String(),
			Status:     StatusPassed,
			Tags:       r.Tags,
			DurationMs: r.Duration.Milliseconds(),
			SkipReason: r.SkipReason,
		}
		switch {
		case r.Skipped:
			cs.Status = StatusSkipped
		case r.Failed():
			cs.Status = StatusFailed
		}
		for _, err := range r.Errors {
			cs.Errors = append(cs.Errors, strings.TrimSpace(err.Error()))
		}
		summary.Tests = append(summary.Tests, cs)
	}

	return summary
}

// WriteSummary encodes summary to w. FormatText writes nothing; the console
// logger has already reported the run.
func WriteSummary(w io.Writer, format OutputFormat, summary Summary) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(summary); err != nil {
			return err
		}
		return encoder.Close()
	case FormatText:
		return nil
	}
	return fmt.Errorf("unknown output format %q", format)
}
