package hmpi_test

import (
	"errors"
	"testing"

	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
)

// TestClassifyBoundaries checks the closed-open band policy: each lower
// bound belongs to its own band, and the last band is unbounded.
func TestClassifyBoundaries(t *testing.T) {
	bands := whoBands()

	cases := []struct {
		index float64
		want  string
	}{
		{0, "Safe"},
		{49.999, "Safe"},
		{50, "Moderate Risk"},
		{99.999, "Moderate Risk"},
		{100, "High Risk"},
		{153.85, "High Risk"},
		{1e9, "High Risk"},
		{-10, "Safe"}, // below-ideal aggregates fall in the first band
	}

	for _, c := range cases {
		got, err := hmpi.Classify(c.index, bands)
		if err != nil {
			t.Fatalf("Classify(%v) returned error: %v", c.index, err)
		}
		if got != c.want {
			t.Errorf("Classify(%v) = %q, want %q", c.index, got, c.want)
		}
	}
}

// TestValidateBandsRejectsBadTables covers the ErrInvalidThresholds
// cases: empty tables, non-increasing bounds, bounded last band, and a
// missing upper bound in the middle.
func TestValidateBandsRejectsBadTables(t *testing.T) {
	cases := map[string][]hmpi.RiskBand{
		"empty": {},
		"non-increasing": {
			{Upper: f(100), Level: "Safe"},
			{Upper: f(50), Level: "Moderate Risk"},
			{Level: "High Risk"},
		},
		"equal bounds": {
			{Upper: f(50), Level: "Safe"},
			{Upper: f(50), Level: "Moderate Risk"},
			{Level: "High Risk"},
		},
		"bounded last band": {
			{Upper: f(50), Level: "Safe"},
			{Upper: f(100), Level: "Moderate Risk"},
		},
		"nil bound before last": {
			{Level: "Safe"},
			{Level: "High Risk"},
		},
		"zero first bound": {
			{Upper: f(0), Level: "Safe"},
			{Level: "High Risk"},
		},
		"missing level": {
			{Upper: f(50), Level: ""},
			{Level: "High Risk"},
		},
	}

	for name, bands := range cases {
		if err := hmpi.ValidateBands(bands); !errors.Is(err, hmpi.ErrInvalidThresholds) {
			t.Errorf("%s: expected ErrInvalidThresholds, got %v", name, err)
		}
	}
}

// TestValidateBandsAcceptsSingleBand verifies that one unbounded band is
// a legal (if blunt) table.
func TestValidateBandsAcceptsSingleBand(t *testing.T) {
	bands := []hmpi.RiskBand{{Level: "Unclassified"}}
	if err := hmpi.ValidateBands(bands); err != nil {
		t.Errorf("single unbounded band should validate, got %v", err)
	}

	got, err := hmpi.Classify(123.4, bands)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got != "Unclassified" {
		t.Errorf("got %q, want Unclassified", got)
	}
}
