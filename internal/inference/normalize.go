package inference

import (
	"math"

	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

// Distribution maps each priority level to a percentage in [0, 100]. The
// values sum to 100 within two-decimal rounding tolerance: independent
// rounding may leave the displayed sum off by a few hundredths, which is
// accepted rather than silently corrected.
type Distribution map[string]float64

// EqualSplitPercent is the per-priority fallback when a raw output vector
// clamps to all zeros. An equal split is the defined degenerate-case policy,
// not an error.
const EqualSplitPercent = 25.0

// Normalize converts a raw model output vector into a valid priority
// distribution: negatives clamp to zero, the remainder rescales to sum to
// 100, and each percentage rounds to two decimals. Rounding happens strictly
// after the rescale so it cannot break the sum invariant.
func Normalize(raw []float64) Distribution {
	clamped := make([]float64, len(schema.Priorities))
	for i := range clamped {
		if i < len(raw) && raw[i] > 0 {
			clamped[i] = raw[i]
		}
	}

	sum := 0.0
	for _, v := range clamped {
		sum += v
	}

	dist := make(Distribution, len(schema.Priorities))
	for i, p := range schema.Priorities {
		if sum > 0 {
			dist[p] = round2(clamped[i] / sum * 100)
		} else {
			dist[p] = EqualSplitPercent
		}
	}
	return dist
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
