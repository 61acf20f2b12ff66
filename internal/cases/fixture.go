package cases

import (
	"os"
	"time"

	"github.com/wesleyorama2/usercheck/internal/http"
	"github.com/wesleyorama2/usercheck/internal/latency"
	"github.com/wesleyorama2/usercheck/internal/schemas"
)

// ExchangeFunc observes every request a case makes. resp is nil when the
// request failed at the transport level.
type ExchangeFunc func(req *http.Request, resp *http.Response, err error)

// Fixture is everything a case needs. It is built once per run and shared
// read-only by every case.
type Fixture struct {
	Client  *http.Client
	Schemas *schemas.Set

	// LatencyBudget overrides LATENCY_BUDGET_S when non-zero.
	LatencyBudget time.Duration
	// Lookup reads LATENCY_BUDGET_S; os.LookupEnv when nil.
	Lookup latency.LookupFunc
	// BurstSize is the number of requests in the burst case.
	BurstSize int

	// OnExchange, when set, sees each request and response.
	OnExchange ExchangeFunc
}

func (f *Fixture) lookup() latency.LookupFunc {
	if f.Lookup != nil {
		return f.Lookup
	}
	return os.LookupEnv
}

func (f *Fixture) burstSize() int {
	if f.BurstSize > 0 {
		return f.BurstSize
	}
	return DefaultBurstSize
}
