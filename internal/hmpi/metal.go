package hmpi

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// CanonicalMetal normalizes a metal name to the form limit tables are
// keyed by: trimmed, title-cased ("arsenic", " LEAD " → "Arsenic",
// "Lead"). Both sides of a lookup must pass through here — readings on
// submit and import, limit rows on seed and admin upsert — or a row
// becomes unreachable.
func CanonicalMetal(name string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(name)))
}
