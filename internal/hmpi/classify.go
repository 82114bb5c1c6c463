package hmpi

import "math"

// ValidateBands checks that a band table is usable: every band except
// the last has a finite upper bound, bounds are strictly increasing and
// positive, and the last band is unbounded so the table is exhaustive
// over [0, +inf).
func ValidateBands(bands []RiskBand) error {
	if len(bands) == 0 {
		return ErrInvalidThresholds
	}

	for i, b := range bands {
		if b.Level == "" {
			return ErrInvalidThresholds
		}
		if i == len(bands)-1 {
			if b.Upper != nil {
				return ErrInvalidThresholds
			}
			continue
		}
		if b.Upper == nil || math.IsNaN(*b.Upper) || math.IsInf(*b.Upper, 0) {
			return ErrInvalidThresholds
		}
		if *b.Upper <= 0 {
			return ErrInvalidThresholds
		}
		if i > 0 && *b.Upper <= *bands[i-1].Upper {
			return ErrInvalidThresholds
		}
	}

	return nil
}

// Classify maps an overall index to its risk level. Each band covers
// [previous upper, upper); the final band is unbounded above.
func Classify(index float64, bands []RiskBand) (string, error) {
	if err := ValidateBands(bands); err != nil {
		return "", err
	}

	for _, b := range bands {
		if b.Upper == nil || index < *b.Upper {
			return b.Level, nil
		}
	}

	// Unreachable: ValidateBands guarantees an unbounded last band.
	return bands[len(bands)-1].Level, nil
}
