package hmpi

import (
	"fmt"
	"sort"
)

// Compute runs the full pipeline for one reading set: unit conversion,
// per-metal normalization against the standard's limit table, weighted
// aggregation, and risk classification. It returns either a complete
// AggregateResult or a single error — never a partial score.
func Compute(in Input, table LimitTable, bands []RiskBand) (*AggregateResult, error) {
	if err := ValidateBands(bands); err != nil {
		return nil, err
	}
	if len(in.Readings) == 0 {
		return nil, ErrEmptyInput
	}

	readings := make([]MetalReading, len(in.Readings))
	copy(readings, in.Readings)
	sort.Slice(readings, func(i, j int) bool { return readings[i].Metal < readings[j].Metal })

	subs := make([]SubIndex, 0, len(readings))
	for i, r := range readings {
		if i > 0 && r.Metal == readings[i-1].Metal {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMetal, r.Metal)
		}
		limit, ok := table[r.Metal]
		if !ok {
			return nil, fmt.Errorf("%w: no entry for %s", ErrInvalidLimit, r.Metal)
		}
		sub, err := Normalize(r, limit)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	overall, err := Aggregate(subs)
	if err != nil {
		return nil, err
	}

	level, err := Classify(overall, bands)
	if err != nil {
		return nil, err
	}

	return &AggregateResult{
		OverallIndex: overall,
		RiskLevel:    level,
		Location:     in.Location,
		Timestamp:    in.Timestamp,
		Standard:     in.Standard,
		SubIndices:   subs,
	}, nil
}
