package latency

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     int64 = 1
	histogramMax     int64 = 3600000000
	histogramSigFigs       = 3
)

// Summary describes a set of sampled latencies. Min and Max are exact; the
// percentiles and mean come from the histogram.
type Summary struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d min=%s p50=%s p95=%s p99=%s max=%s",
		s.Count, s.Min, s.P50, s.P95, s.P99, s.Max)
}

// Sampler accumulates request durations. It is not safe for concurrent use;
// the cases sample sequentially.
type Sampler struct {
	hist *hdrhistogram.Histogram
	min  time.Duration
	max  time.Duration
}

// NewSampler returns an empty sampler.
func NewSampler() *Sampler {
	return &Sampler{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds one observation.
func (s *Sampler) Record(d time.Duration) {
	if s.hist.TotalCount() == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}

	micros := d.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	// RecordValue only fails for out-of-range values, which were clamped above.
	_ = s.hist.RecordValue(micros)
}

// Count returns the number of observations.
func (s *Sampler) Count() int64 {
	return s.hist.TotalCount()
}

// Summary returns the current statistics.
func (s *Sampler) Summary() Summary {
	if s.hist.TotalCount() == 0 {
		return Summary{}
	}

	return Summary{
		Count: s.hist.TotalCount(),
		Min:   s.min,
		Max:   s.max,
		Mean:  time.Duration(s.hist.Mean()) * time.Microsecond,
		P50:   time.Duration(s.hist.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(s.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(s.hist.ValueAtQuantile(99)) * time.Microsecond,
	}
}
