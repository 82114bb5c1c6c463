package hmpi

import (
	"fmt"
	"math"
)

// Normalize converts one reading and its limit entry into a per-metal
// sub-index:
//
//	Q = ((concentration - ideal) / (limit - ideal)) * 100
//
// A reading exactly at the permissible limit yields Q = 100. Negative Q
// (concentration below the ideal value) is preserved, not clamped, so
// aggregation stays linear. The weight is 1/limit, so metals with
// stricter limits contribute proportionally more downstream.
func Normalize(reading MetalReading, limit Limit) (SubIndex, error) {
	conc, err := ConvertToMgL(reading.Concentration, reading.Unit)
	if err != nil {
		return SubIndex{}, err
	}
	if math.IsNaN(conc) || conc < 0 {
		return SubIndex{}, fmt.Errorf("%w: %s", ErrInvalidReading, reading.Metal)
	}

	permissible, err := ConvertToMgL(limit.PermissibleLimit, limit.Unit)
	if err != nil {
		return SubIndex{}, err
	}
	ideal, err := ConvertToMgL(limit.IdealValue, limit.Unit)
	if err != nil {
		return SubIndex{}, err
	}

	if math.IsNaN(permissible) || math.IsNaN(ideal) || ideal < 0 {
		return SubIndex{}, fmt.Errorf("%w: %s", ErrInvalidLimit, reading.Metal)
	}
	// The limit must sit strictly above the ideal value or the
	// normalization divides by zero (or flips sign).
	if permissible <= ideal {
		return SubIndex{}, fmt.Errorf("%w: %s", ErrInvalidLimit, reading.Metal)
	}

	q := (conc - ideal) / (permissible - ideal) * 100

	return SubIndex{
		Metal:            reading.Metal,
		QualityIndex:     q,
		Weight:           1 / permissible,
		Concentration:    conc,
		PermissibleLimit: permissible,
		Exceeded:         conc > permissible,
	}, nil
}
