package cases

import (
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/usercheck/internal/latency"
)

func latencyCases() []Case {
	performance := []string{TagPerformance}
	return []Case{
		{Group: "latency", Name: "list page 2", Tags: performance, Run: latencyListPage},
		{Group: "latency", Name: "small burst", Tags: performance, Run: latencySmallBurst},
	}
}

func latencyListPage(t *T) {
	guard := t.Guard()

	resp := t.Get("/users", map[string]string{"page": "2"})
	require.NoError(t, guard.Check(resp.Elapsed))
}

// latencySmallBurst sends sequential requests and gates on the slowest.
func latencySmallBurst(t *T) {
	guard := t.Guard()
	sampler := latency.NewSampler()

	for i := 0; i < t.fixture.burstSize(); i++ {
		resp := t.Get("/users", map[string]string{"page": "1"})
		require.Equal(t, 200, resp.StatusCode, "request %d of the burst", i+1)
		sampler.Record(resp.Elapsed)
	}

	summary := sampler.Summary()
	t.Debug("burst: %s", summary)
	require.NoError(t, guard.CheckSummary(summary))
}
