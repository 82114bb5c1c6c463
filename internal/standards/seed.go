package standards

import (
	"fmt"
	"log"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seed inserts every standard from the seed file that is not already in
// the database. Existing standards are skipped, not overwritten, so
// re-running the seeder is safe.
func Seed(file *SeedFile) error {
	for _, s := range file.Standards {
		var existing Standard
		err := db.DB.First(&existing, "code = ?", s.Code).Error

		if err == nil {
			log.Printf("Standard exists, skipping: %s", s.Code)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on standard %s: %w", s.Code, err)
		}

		standard := Standard{
			ID:   uuid.New(),
			Code: s.Code,
			Name: s.Name,
			Year: s.Year,
		}
		for _, l := range s.Limits {
			unit := l.Unit
			if unit == "" {
				unit = "mg/L"
			}
			standard.Limits = append(standard.Limits, MetalLimit{
				ID:               uuid.New(),
				StandardID:       standard.ID,
				Metal:            hmpi.CanonicalMetal(l.Metal),
				PermissibleLimit: l.PermissibleLimit,
				IdealValue:       l.IdealValue,
				Unit:             unit,
			})
		}
		for i, b := range s.Bands {
			standard.Bands = append(standard.Bands, RiskBand{
				ID:         uuid.New(),
				StandardID: standard.ID,
				Upper:      b.Upper,
				Level:      b.Level,
				SortOrder:  i,
			})
		}

		if err := db.DB.Create(&standard).Error; err != nil {
			return fmt.Errorf("failed to create standard %s: %w", s.Code, err)
		}
		log.Printf("Seeded standard %s (%d limits, %d bands)", s.Code, len(standard.Limits), len(standard.Bands))
	}

	return nil
}
