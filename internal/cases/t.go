package cases

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/usercheck/internal/http"
	"github.com/wesleyorama2/usercheck/internal/latency"
	"github.com/wesleyorama2/usercheck/internal/suite"
	"github.com/wesleyorama2/usercheck/pkg/jsonpath"
	"github.com/wesleyorama2/usercheck/pkg/jsonschema"
)

// maxLoggedBody bounds how much of a body goes into the debug log.
const maxLoggedBody = 2048

// T is the scope of one case. It embeds the suite context, so it can be
// passed to assert and require like a *testing.T, and adds request helpers
// that log what they do and fail the case on transport errors.
type T struct {
	*suite.Context
	fixture *Fixture
}

func newT(c *suite.Context, f *Fixture) *T {
	return &T{Context: c, fixture: f}
}

// Do sends req and returns the response. A transport failure ends the case.
func (t *T) Do(req *http.Request) *http.Response {
	client := t.fixture.Client
	t.Debug("%s", req.Curl(client.BaseURL(), client.RedactedHeaders()))

	resp, err := client.Do(t.Context.Context(), req)
	if t.fixture.OnExchange != nil {
		t.fixture.OnExchange(req, resp, err)
	}
	require.NoError(t, err, "request failed")

	body, _ := resp.GetBodyAsString()
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody] + "..."
	}
	t.Debug("%d %s in %s: %s", resp.StatusCode, req.Path, resp.Elapsed, body)
	return resp
}

func (t *T) Get(path string, query map[string]string) *http.Response {
	return t.Do(http.NewRequest("GET", path).WithQueryParams(query))
}

func (t *T) Post(path string, body interface{}) *http.Response {
	return t.Do(http.NewRequest("POST", path).WithBody(body))
}

func (t *T) Put(path string, body interface{}) *http.Response {
	return t.Do(http.NewRequest("PUT", path).WithBody(body))
}

func (t *T) Delete(path string) *http.Response {
	return t.Do(http.NewRequest("DELETE", path))
}

// RequireStatus ends the case unless resp has the wanted status.
func (t *T) RequireStatus(resp *http.Response, want int) {
	body, _ := resp.GetBodyAsString()
	require.Equal(t, want, resp.StatusCode, "unexpected status %d body=%q", resp.StatusCode, body)
}

// JSON parses the body or ends the case.
func (t *T) JSON(resp *http.Response) jsonpath.Document {
	body, _ := resp.GetBody()
	doc, err := jsonpath.Parse(body)
	require.NoError(t, err, "response body is not JSON")
	return doc
}

// RequireValid ends the case when the body does not match the schema. The
// first violation is the failure message; the rest go to the debug log.
func (t *T) RequireValid(v *jsonschema.Validator, resp *http.Response) {
	body, _ := resp.GetBody()
	result := v.Validate(body)
	if result.Valid {
		return
	}
	for _, err := range result.Errors {
		t.Debug("%s: %s", v.Name(), err)
	}
	require.Fail(t, fmt.Sprintf("body does not match %s", v.Name()), result.FirstViolation())
}

// RequireFields asserts that every path is present in doc.
func (t *T) RequireFields(doc jsonpath.Document, paths ...string) {
	for _, path := range paths {
		assert.True(t, doc.Has(path), "missing field %q", path)
	}
	if t.Failed() {
		t.FailNow()
	}
}

// Guard returns the latency guard for this run. The budget is read when the
// case asks for it, so a bad LATENCY_BUDGET_S only fails latency cases.
func (t *T) Guard() latency.Guard {
	guard, err := latency.GuardFromEnv(t.fixture.LatencyBudget, t.fixture.lookup())
	require.NoError(t, err, "latency budget")
	t.Debug("latency budget %s", guard.Budget)
	return guard
}
