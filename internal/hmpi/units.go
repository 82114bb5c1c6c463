package hmpi

import "fmt"

// ConvertToMgL converts a concentration to mg/L, the engine's canonical
// unit. For dilute aqueous solutions ppm maps 1:1 to mg/L and ppb is a
// thousandth of that.
func ConvertToMgL(value float64, unit Unit) (float64, error) {
	switch unit {
	case UnitMgL, UnitPPM:
		return value, nil
	case UnitPPB:
		return value / 1000, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}
