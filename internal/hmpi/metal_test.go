package hmpi_test

import (
	"testing"

	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
)

// TestCanonicalMetal verifies metal names from form input land on the
// fixed vocabulary form used by limit tables.
func TestCanonicalMetal(t *testing.T) {
	cases := map[string]string{
		"arsenic":   "Arsenic",
		"ARSENIC":   "Arsenic",
		" lead ":    "Lead",
		"Cadmium":   "Cadmium",
		"mercury\t": "Mercury",
		"chromium":  "Chromium",
	}

	for in, want := range cases {
		if got := hmpi.CanonicalMetal(in); got != want {
			t.Errorf("CanonicalMetal(%q) = %q, want %q", in, got, want)
		}
	}
}
