package cases_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wesleyorama2/usercheck/internal/cases"
	"github.com/wesleyorama2/usercheck/internal/config"
	"github.com/wesleyorama2/usercheck/internal/http"
	"github.com/wesleyorama2/usercheck/internal/latency"
	"github.com/wesleyorama2/usercheck/internal/mockapi"
	"github.com/wesleyorama2/usercheck/internal/output"
	"github.com/wesleyorama2/usercheck/internal/schemas"
	"github.com/wesleyorama2/usercheck/internal/suite"
)

const defaultCaseCount = 12

func noEnv(string) (string, bool) { return "", false }

func serve(handler nethttp.Handler) string {
	srv := httptest.NewServer(handler)
	DeferCleanup(srv.Close)
	return srv.URL
}

func newFixture(serverURL string, options ...http.ClientOption) *cases.Fixture {
	set, err := schemas.Open("")
	Expect(err).NotTo(HaveOccurred())

	options = append([]http.ClientOption{
		http.WithBaseURL(serverURL + mockapi.BasePath),
		http.WithTimeout(5 * time.Second),
	}, options...)

	return &cases.Fixture{
		Client:  http.NewClient(options...),
		Schemas: set,
		Lookup:  noEnv,
	}
}

func withKey() http.ClientOption {
	return http.WithAPIKey(config.DefaultAPIKeyHeader, config.DefaultAPIKey)
}

func failedIDs(results suite.Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func describeFailures(results suite.Results) string {
	var lines []string
	for _, f := range results.Errors() {
		lines = append(lines, f.Error())
	}
	return strings.Join(lines, "\n")
}

// override answers the requests fn handles and passes the rest to next.
func override(next nethttp.Handler, fn func(w nethttp.ResponseWriter, r *nethttp.Request) bool) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if !fn(w, r) {
			next.ServeHTTP(w, r)
		}
	})
}

func writeJSON(w nethttp.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	Expect(json.NewEncoder(w).Encode(v)).To(Succeed())
}

var _ = Describe("Case set", func() {
	Context("When run against the mock users API", func() {
		var fixture *cases.Fixture

		BeforeEach(func() {
			api := mockapi.New(mockapi.WithAPIKey(config.DefaultAPIKeyHeader, config.DefaultAPIKey))
			fixture = newFixture(serve(api.Handler()), withKey())
		})

		It("should pass every default case and skip the performance ones", func() {
			results := cases.Run(fixture, suite.Options{})

			Expect(results.OK()).To(BeTrue(), describeFailures(results))
			passed, failed, skipped := results.Counts()
			Expect(passed).To(Equal(defaultCaseCount))
			Expect(failed).To(BeZero())
			Expect(skipped).To(Equal(2))

			for _, r := range results.Tests {
				if r.Skipped {
					Expect(r.Tags).To(ContainElement(cases.TagPerformance))
				}
			}
		})

		It("should pass the performance cases when they are enabled", func() {
			fixture.BurstSize = 3
			results := cases.Run(fixture, suite.Options{EnabledTags: []string{cases.TagPerformance}})

			Expect(results.OK()).To(BeTrue(), describeFailures(results))
			_, _, skipped := results.Counts()
			Expect(skipped).To(BeZero())
		})

		It("should run only the cases selected by the filters", func() {
			var filters suite.RegexFilters
			Expect(filters.MustMatch.Set("^users/get/")).To(Succeed())
			Expect(filters.MustNotMatch.Set("missing")).To(Succeed())

			results := cases.Run(fixture, suite.Options{Filter: filters.AsFilter})

			var ids []string
			for _, r := range results.Tests {
				ids = append(ids, r.TestID.String())
			}
			Expect(ids).To(Equal([]string{"users/get/known user", "users/get/every listed user"}))
		})

		It("should report every exchange to the observer", func() {
			var exchanges int
			fixture.OnExchange = func(req *http.Request, resp *http.Response, err error) {
				Expect(err).NotTo(HaveOccurred())
				exchanges++
			}

			cases.Run(fixture, suite.Options{})

			// 4 list, 1+14+1 get, 3 create, 2 update, 2 delete
			Expect(exchanges).To(Equal(27))
		})

		It("should keep the API key out of the debug output", func() {
			var out bytes.Buffer
			logger := &output.ConsoleTestLogger{Writer: &out, NoColor: true, DebugOutputOnSuccess: true}

			var filters suite.RegexFilters
			Expect(filters.MustMatch.Set("^users/get/known user$")).To(Succeed())
			results := cases.Run(fixture, suite.Options{Filter: filters.AsFilter, Logger: logger})

			Expect(results.OK()).To(BeTrue(), describeFailures(results))
			Expect(out.String()).To(ContainSubstring("X-Api-Key: reqr****"))
			Expect(out.String()).NotTo(ContainSubstring(config.DefaultAPIKey))
		})

		It("should look up every user on every listed page", func() {
			handler, requests := httphelpers.RecordingHandler(mockapi.New().Handler())
			fixture := newFixture(serve(handler), withKey())

			var filters suite.RegexFilters
			Expect(filters.MustMatch.Set("^users/get/every listed user$")).To(Succeed())
			results := cases.Run(fixture, suite.Options{Filter: filters.AsFilter})
			Expect(results.OK()).To(BeTrue(), describeFailures(results))

			var paths []string
			for len(requests) > 0 {
				info := <-requests
				paths = append(paths, info.Request.URL.Path)
			}
			for _, user := range mockapi.SeedUsers() {
				Expect(paths).To(ContainElement(fmt.Sprintf("/api/users/%d", user.ID)))
			}
		})

		It("should fail the latency cases when LATENCY_BUDGET_S is invalid", func() {
			fixture.Lookup = func(key string) (string, bool) {
				if key == latency.BudgetEnvVar {
					return "soon", true
				}
				return "", false
			}

			results := cases.Run(fixture, suite.Options{EnabledTags: []string{cases.TagPerformance}})

			Expect(failedIDs(results)).To(ConsistOf("users/latency/list page 2", "users/latency/small burst"))
		})
	})

	Context("When the API is slower than the budget", func() {
		It("should fail only the latency cases", func() {
			api := mockapi.New(mockapi.WithDelay(30 * time.Millisecond))
			fixture := newFixture(serve(api.Handler()))
			fixture.LatencyBudget = 10 * time.Millisecond
			fixture.BurstSize = 2

			results := cases.Run(fixture, suite.Options{EnabledTags: []string{cases.TagPerformance}})

			Expect(failedIDs(results)).To(ConsistOf("users/latency/list page 2", "users/latency/small burst"))
			Expect(describeFailures(results)).To(ContainSubstring("exceeds 0.010s"))
			Expect(describeFailures(results)).To(ContainSubstring("max latency"))
		})
	})

	Context("When every request carries the API key", func() {
		It("should send it on each request", func() {
			handler, requests := httphelpers.RecordingHandler(mockapi.New().Handler())
			fixture := newFixture(serve(handler), withKey())

			cases.Run(fixture, suite.Options{})

			Expect(requests).NotTo(BeEmpty())
			for len(requests) > 0 {
				info := <-requests
				Expect(info.Request.Header.Get("x-api-key")).To(Equal(config.DefaultAPIKey))
			}
		})
	})

	Context("When the API key is missing", func() {
		It("should fail every case with the 401 status", func() {
			api := mockapi.New(mockapi.WithAPIKey(config.DefaultAPIKeyHeader, config.DefaultAPIKey))
			fixture := newFixture(serve(api.Handler()))

			results := cases.Run(fixture, suite.Options{})

			_, failed, _ := results.Counts()
			Expect(failed).To(Equal(defaultCaseCount))
			Expect(describeFailures(results)).To(ContainSubstring("401"))
		})
	})

	Context("When the API answers every request with 500", func() {
		It("should fail every case", func() {
			fixture := newFixture(serve(httphelpers.HandlerWithStatus(500)))

			results := cases.Run(fixture, suite.Options{})

			Expect(results.OK()).To(BeFalse())
			_, failed, _ := results.Counts()
			Expect(failed).To(Equal(defaultCaseCount))
		})
	})

	Context("When the API returns a malformed list", func() {
		It("should report the first schema violation", func() {
			body := `{"page":1,"per_page":6,"total":12,"total_pages":2,"data":[{"id":"one"}]}`
			handler := httphelpers.HandlerWithResponse(200, nethttp.Header{"Content-Type": {"application/json"}}, []byte(body))
			fixture := newFixture(serve(handler))

			var filters suite.RegexFilters
			Expect(filters.MustMatch.Set("^users/list/page 1$")).To(Succeed())
			results := cases.Run(fixture, suite.Options{Filter: filters.AsFilter})

			Expect(failedIDs(results)).To(Equal([]string{"users/list/page 1"}))
			Expect(describeFailures(results)).To(ContainSubstring("/data/0"))
		})
	})

	Context("When the API rejects a repeated delete", func() {
		It("should fail only the delete case", func() {
			var mu sync.Mutex
			deleted := map[string]bool{}
			handler := override(mockapi.New().Handler(), func(w nethttp.ResponseWriter, r *nethttp.Request) bool {
				if r.Method != nethttp.MethodDelete {
					return false
				}
				mu.Lock()
				defer mu.Unlock()
				if !deleted[r.URL.Path] {
					deleted[r.URL.Path] = true
					return false
				}
				writeJSON(w, nethttp.StatusNotFound, map[string]interface{}{})
				return true
			})

			results := cases.Run(newFixture(serve(handler)), suite.Options{})

			Expect(failedIDs(results)).To(Equal([]string{"users/delete/twice"}))
			Expect(describeFailures(results)).To(ContainSubstring("second delete"))
		})
	})

	Context("When the API refuses to update a missing user", func() {
		It("should fail only the missing user update", func() {
			missing := fmt.Sprintf("%s/users/%d", mockapi.BasePath, cases.MissingUpdateID)
			handler := override(mockapi.New().Handler(), func(w nethttp.ResponseWriter, r *nethttp.Request) bool {
				if r.Method != nethttp.MethodPut || r.URL.Path != missing {
					return false
				}
				writeJSON(w, nethttp.StatusNotFound, map[string]interface{}{})
				return true
			})

			results := cases.Run(newFixture(serve(handler)), suite.Options{})

			Expect(failedIDs(results)).To(Equal([]string{"users/update/missing user"}))
		})
	})

	Context("When the API echoes an unknown field with another value", func() {
		It("should fail only the extra field case", func() {
			handler := override(mockapi.New().Handler(), func(w nethttp.ResponseWriter, r *nethttp.Request) bool {
				if r.Method != nethttp.MethodPost {
					return false
				}
				data, err := io.ReadAll(r.Body)
				Expect(err).NotTo(HaveOccurred())
				r.Body = io.NopCloser(bytes.NewReader(data))

				var fields map[string]interface{}
				if json.Unmarshal(data, &fields) != nil {
					return false
				}
				if _, ok := fields["admin"]; !ok {
					return false
				}
				fields["admin"] = false
				fields["id"] = "500"
				fields["createdAt"] = "2026-01-02T03:04:05.000Z"
				writeJSON(w, nethttp.StatusCreated, fields)
				return true
			})

			results := cases.Run(newFixture(serve(handler)), suite.Options{})

			Expect(failedIDs(results)).To(Equal([]string{"users/create/extra field"}))
			Expect(describeFailures(results)).To(ContainSubstring("admin echoed as false"))
		})
	})

	Context("When a page holds more users than per_page", func() {
		It("should fail only the page 1 case", func() {
			handler := override(mockapi.New().Handler(), func(w nethttp.ResponseWriter, r *nethttp.Request) bool {
				if r.Method != nethttp.MethodGet || r.URL.Path != mockapi.BasePath+"/users" || r.URL.Query().Get("page") != "1" {
					return false
				}
				writeJSON(w, nethttp.StatusOK, map[string]interface{}{
					"page":        1,
					"per_page":    1,
					"total":       12,
					"total_pages": 12,
					"data":        mockapi.SeedUsers()[:2],
				})
				return true
			})

			results := cases.Run(newFixture(serve(handler)), suite.Options{})

			Expect(failedIDs(results)).To(Equal([]string{"users/list/page 1"}))
			Expect(describeFailures(results)).To(ContainSubstring("len(data) <= per_page"))
		})
	})

	Context("When the API cannot be reached", func() {
		It("should fail every case without retrying", func() {
			srv := httptest.NewServer(mockapi.New().Handler())
			serverURL := srv.URL
			srv.Close()

			var exchanges int
			fixture := newFixture(serverURL)
			fixture.OnExchange = func(req *http.Request, resp *http.Response, err error) {
				Expect(resp).To(BeNil())
				Expect(http.IsTransportError(err)).To(BeTrue())
				exchanges++
			}

			results := cases.Run(fixture, suite.Options{})

			_, failed, _ := results.Counts()
			Expect(failed).To(Equal(defaultCaseCount))
			Expect(exchanges).To(Equal(defaultCaseCount), "one attempt per case")
			Expect(describeFailures(results)).To(ContainSubstring("request failed"))
		})
	})
})
