package series

import (
	"time"

	"github.com/rickgao/marketdata/internal/model"
)

// LastPerMinute keeps the latest sample of each clock minute, so that a feed polled
// faster than once a minute covers at most one expected minute per minute observed.
// Sample times are left untouched. The input must be strictly ascending.
func LastPerMinute(samples []model.Sample) ([]model.Sample, error) {
	if err := checkSamples(samples); err != nil {
		return nil, err
	}

	out := make([]model.Sample, 0, len(samples))
	for i, s := range samples {
		if i+1 < len(samples) && sameMinute(s.Time, samples[i+1].Time) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}
