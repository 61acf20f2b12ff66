package suite

import (
	"fmt"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Tags       []string
	Errors     []error
	Skipped    bool
	SkipReason string
	Duration   time.Duration
}

// Failed reports whether the case ran and recorded at least one failure.
func (r TestResult) Failed() bool {
	return !r.Skipped && len(r.Errors) > 0
}

// OK is true when no case failed. Skipped cases do not count as failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of passed, failed and skipped cases.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			skipped++
		case t.Failed():
			failed++
		default:
			passed++
		}
	}
	return passed, failed, skipped
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns a new ID with name appended; t is not modified.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// Errors returns every failure as a TestFailure, in run order.
func (r Results) Errors() []TestFailure {
	var failures []TestFailure
	for _, f := range r.Failures {
		for _, err := range f.Errors {
			failures = append(failures, TestFailure{ID: f.TestID, Err: err})
		}
	}
	return failures
}
