package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Options control a whole run.
type Options struct {
	// Filter excludes cases by ID. Nil runs everything.
	Filter Filter
	// Logger receives progress events. Nil discards them.
	Logger TestLogger
	// EnabledTags lists the tags whose cases may run. Untagged cases always run.
	EnabledTags []string
	// Context is the parent of every case context. Defaults to context.Background().
	Context context.Context
}

type environment struct {
	ctx         context.Context
	results     Results
	testLogger  TestLogger
	filter      Filter
	enabledTags map[string]bool
}

type Context struct {
	env         *environment
	id          TestID
	tags        []string
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes action as the root of a case tree and returns what every
// nested case recorded.
func Run(opts Options, action func(*Context)) Results {
	testLogger := opts.Logger
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	env := &environment{
		ctx:         ctx,
		filter:      opts.Filter,
		testLogger:  testLogger,
		enabledTags: make(map[string]bool),
	}
	for _, tag := range opts.EnabledTags {
		env.enabledTags[tag] = true
	}

	c := &Context{env: env}
	c.run(action, false)
	return env.results
}

func (c *Context) run(action func(*Context), record bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.recordPanic(r)
		}
		if !record && !c.failed {
			return
		}
		result := TestResult{
			TestID:     c.id,
			Tags:       c.tags,
			Errors:     c.errors,
			Skipped:    c.skipped,
			SkipReason: c.skipReason,
			Duration:   time.Since(start),
		}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed && !c.skipped {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) recordPanic(r interface{}) {
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Context returns the context that requests made by the case should use.
func (c *Context) Context() context.Context {
	return c.env.ctx
}

// Run runs a nested case.
func (c *Context) Run(name string, action func(*Context)) {
	c.RunTagged(name, nil, action)
}

// Group runs action as a container of cases. Filters apply to the cases
// inside it, not to the group, and a group is only recorded if its own body
// fails.
func (c *Context) Group(name string, action func(*Context)) {
	c1 := &Context{
		id:  c.id.Plus(name),
		env: c.env,
	}
	c1.run(action, false)
}

// RunTagged runs a nested case that is skipped unless every one of tags was
// enabled for this run.
func (c *Context) RunTagged(name string, tags []string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	var missing []string
	for _, tag := range tags {
		if !c.env.enabledTags[tag] {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		reason := "requires tag " + strings.Join(missing, ", ")
		c.env.results.Tests = append(c.env.results.Tests, TestResult{
			TestID: id, Tags: tags, Skipped: true, SkipReason: reason,
		})
		c.env.testLogger.TestSkipped(id, reason)
		return
	}

	c1 := &Context{
		id:   id,
		env:  c.env,
		tags: tags,
	}
	c1.run(action, true)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

// Helper exists so testify treats the context like a *testing.T.
func (c *Context) Helper() {}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError trims the blank lines testify puts around its failure report.
func reformatError(err error) error {
	msg := strings.Trim(err.Error(), "\n")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
