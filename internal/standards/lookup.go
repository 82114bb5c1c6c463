package standards

import (
	"fmt"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"gorm.io/gorm"
)

// Lookup loads a standard by code and converts its rows into the
// engine-ready limit table and band list. Bands come back in SortOrder
// so the stored table keeps its closed-open layout.
func Lookup(code string) (hmpi.LimitTable, []hmpi.RiskBand, error) {
	var standard Standard
	err := db.DB.
		Preload("Limits").
		Preload("Bands", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&standard, "code = ?", code).Error
	if err != nil {
		return nil, nil, fmt.Errorf("standard %q not found: %w", code, err)
	}

	// Keying through CanonicalMetal also repairs rows that predate
	// canonicalization at the write paths.
	table := make(hmpi.LimitTable, len(standard.Limits))
	for _, l := range standard.Limits {
		table[hmpi.CanonicalMetal(l.Metal)] = hmpi.Limit{
			PermissibleLimit: l.PermissibleLimit,
			IdealValue:       l.IdealValue,
			Unit:             hmpi.Unit(l.Unit),
		}
	}

	bands := make([]hmpi.RiskBand, 0, len(standard.Bands))
	for _, b := range standard.Bands {
		bands = append(bands, hmpi.RiskBand{Upper: b.Upper, Level: b.Level})
	}

	if err := hmpi.ValidateBands(bands); err != nil {
		return nil, nil, fmt.Errorf("standard %q has an unusable band table: %w", code, err)
	}

	return table, bands, nil
}
