package hmpi

import (
	"fmt"
	"sort"
)

// Aggregate combines per-metal sub-indices into the overall index using
// a weighted arithmetic mean. Weights are normalized before the sum,
//
//	overall = Σ Q_i * (w_i / Σw)
//
// so a single reading's overall index equals its Q exactly (w/w is 1,
// with no rounding at the band edges) and large 1/limit weights stay
// well conditioned. Sub-indices are summed in metal-name order so the
// same reading set always produces a bit-identical result regardless
// of input order.
func Aggregate(subs []SubIndex) (float64, error) {
	if len(subs) == 0 {
		return 0, ErrEmptyInput
	}

	sorted := make([]SubIndex, len(subs))
	copy(sorted, subs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Metal < sorted[j].Metal })

	var den float64
	for i, s := range sorted {
		if i > 0 && s.Metal == sorted[i-1].Metal {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateMetal, s.Metal)
		}
		den += s.Weight
	}

	// Weights derive from 1/limit with limit > 0, so a zero denominator
	// means the sub-indices were not produced by Normalize.
	if den == 0 {
		return 0, ErrInvalidLimit
	}

	var overall float64
	for _, s := range sorted {
		overall += s.QualityIndex * (s.Weight / den)
	}
	return overall, nil
}
