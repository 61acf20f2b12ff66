// Package cases holds the fixed set of contract checks run against the users
// API, and the runner that drives them through the suite harness.
package cases

import (
	"github.com/wesleyorama2/usercheck/internal/suite"
)

const (
	// Root is the first element of every case ID.
	Root = "users"

	// TagPerformance marks latency cases, which only run when enabled.
	TagPerformance = "performance"

	KnownUserID      = 2
	MissingUserID    = 23
	MissingUpdateID  = 9999
	DefaultBurstSize = 10
)

// Case is one named check.
type Case struct {
	Group string
	Name  string
	Tags  []string
	Run   func(t *T)
}

func (c Case) ID() suite.TestID {
	return suite.TestID{Path: []string{Root, c.Group, c.Name}}
}

// All returns every case in run order.
func All() []Case {
	var all []Case
	all = append(all, listCases()...)
	all = append(all, getCases()...)
	all = append(all, createCases()...)
	all = append(all, updateCases()...)
	all = append(all, deleteCases()...)
	all = append(all, latencyCases()...)
	return all
}

// Run executes every case against the fixture. Groups preserve the order of
// All; filters in opts apply to individual cases.
func Run(f *Fixture, opts suite.Options) suite.Results {
	all := All()

	return suite.Run(opts, func(c *suite.Context) {
		c.Group(Root, func(c *suite.Context) {
			for start := 0; start < len(all); {
				end := start
				for end < len(all) && all[end].Group == all[start].Group {
					end++
				}
				group := all[start:end]
				c.Group(group[0].Group, func(c *suite.Context) {
					for _, tc := range group {
						tc := tc
						c.RunTagged(tc.Name, tc.Tags, func(c *suite.Context) {
							tc.Run(newT(c, f))
						})
					}
				})
				start = end
			}
		})
	})
}
