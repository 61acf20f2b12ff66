// Package latency implements the opt-in latency checks: a wall-clock budget
// for single requests and an HDR-histogram summary for small bursts.
package latency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// BudgetEnvVar holds the budget in (fractional) seconds.
const BudgetEnvVar = "LATENCY_BUDGET_S"

// DefaultBudget applies when BudgetEnvVar is unset.
const DefaultBudget = 2 * time.Second

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// BudgetFromEnv reads BudgetEnvVar through lookup. An unset or blank variable
// yields DefaultBudget; anything that is not a positive number of seconds is
// an error.
func BudgetFromEnv(lookup LookupFunc) (time.Duration, error) {
	raw, ok := lookup(BudgetEnvVar)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return DefaultBudget, nil
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", BudgetEnvVar, raw)
	}
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, fmt.Errorf("%s: budget must be a positive number of seconds, got %q", BudgetEnvVar, raw)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// ExceededError is returned when a request took at least the budget.
type ExceededError struct {
	Elapsed time.Duration
	Budget  time.Duration
	// Burst is set when Elapsed is the slowest of several requests.
	Burst bool
}

func (e *ExceededError) Error() string {
	if e.Burst {
		return fmt.Sprintf("max latency %.3fs >= %.3fs", e.Elapsed.Seconds(), e.Budget.Seconds())
	}
	return fmt.Sprintf("response took %.3fs which exceeds %.3fs", e.Elapsed.Seconds(), e.Budget.Seconds())
}

// Guard compares measured durations against a budget.
type Guard struct {
	Budget time.Duration
}

// NewGuard returns a guard with budget, or DefaultBudget when budget is zero.
func NewGuard(budget time.Duration) Guard {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return Guard{Budget: budget}
}

// GuardFromEnv builds a guard, preferring override when it is non-zero and
// otherwise reading BudgetEnvVar at call time.
func GuardFromEnv(override time.Duration, lookup LookupFunc) (Guard, error) {
	if override > 0 {
		return NewGuard(override), nil
	}
	budget, err := BudgetFromEnv(lookup)
	if err != nil {
		return Guard{}, err
	}
	return NewGuard(budget), nil
}

// Check fails when elapsed is not strictly below the budget.
func (g Guard) Check(elapsed time.Duration) error {
	if elapsed < g.Budget {
		return nil
	}
	return &ExceededError{Elapsed: elapsed, Budget: g.Budget}
}

// CheckSummary gates a burst on its slowest request.
func (g Guard) CheckSummary(summary Summary) error {
	if summary.Count == 0 {
		return fmt.Errorf("no requests were sampled")
	}
	if summary.Max < g.Budget {
		return nil
	}
	return &ExceededError{Elapsed: summary.Max, Budget: g.Budget, Burst: true}
}
