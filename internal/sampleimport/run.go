package sampleimport

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/AquaIndex/HMPI-Backend/internal/samples"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	CSVPath     string
	DatabaseURL string
	Standard    string
	DryRun      bool
}

type group struct {
	location    string
	latitude    float64
	longitude   float64
	collectedAt time.Time
	readings    []hmpi.MetalReading
	originals   []Row
}

// Run imports a sampling-campaign CSV: rows are grouped by (location,
// collected_at) into samples, every sample is validated and computed
// through the engine, and everything lands in one transaction. Any
// validation failure aborts the whole import.
func Run(cfg Config) error {
	rows, err := ParseCSV(cfg.CSVPath)
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return err
	}

	var standard standards.Standard
	err = db.
		Preload("Limits").
		Preload("Bands", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&standard, "code = ?", cfg.Standard).Error
	if err != nil {
		return fmt.Errorf("standard %q not found: %w", cfg.Standard, err)
	}

	table := make(hmpi.LimitTable, len(standard.Limits))
	for _, l := range standard.Limits {
		table[l.Metal] = hmpi.Limit{
			PermissibleLimit: l.PermissibleLimit,
			IdealValue:       l.IdealValue,
			Unit:             hmpi.Unit(l.Unit),
		}
	}
	bands := make([]hmpi.RiskBand, 0, len(standard.Bands))
	for _, b := range standard.Bands {
		bands = append(bands, hmpi.RiskBand{Upper: b.Upper, Level: b.Level})
	}

	groups := groupRows(rows)

	type computed struct {
		g      group
		result *hmpi.AggregateResult
	}
	results := make([]computed, 0, len(groups))

	for _, g := range groups {
		result, err := hmpi.Compute(hmpi.Input{
			Location:  g.location,
			Timestamp: g.collectedAt,
			Standard:  cfg.Standard,
			Readings:  g.readings,
		}, table, bands)
		if err != nil {
			return fmt.Errorf("sample %s @ %s: %w", g.location, g.collectedAt.Format(time.RFC3339), err)
		}
		results = append(results, computed{g: g, result: result})
	}

	if cfg.DryRun {
		for _, c := range results {
			log.Printf("would import %s @ %s: index %.2f (%s), %d metals",
				c.g.location, c.g.collectedAt.Format(time.RFC3339),
				c.result.OverallIndex, c.result.RiskLevel, len(c.g.readings))
		}
		log.Printf("dry run: %d samples validated, nothing written", len(results))
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range results {
			sample := samples.Sample{
				ID:           uuid.New(),
				Location:     c.g.location,
				Latitude:     c.g.latitude,
				Longitude:    c.g.longitude,
				StandardCode: cfg.Standard,
				CollectedAt:  c.g.collectedAt,
				SubmittedBy:  "import",
			}
			for _, sub := range c.result.SubIndices {
				sample.Readings = append(sample.Readings, samples.SampleReading{
					ID:               uuid.New(),
					SampleID:         sample.ID,
					Metal:            sub.Metal,
					Concentration:    originalValue(c.g.originals, sub.Metal),
					Unit:             originalUnit(c.g.originals, sub.Metal),
					ConcentrationMgL: sub.Concentration,
				})
			}

			result := samples.Result{
				ID:           uuid.New(),
				SampleID:     sample.ID,
				OverallIndex: c.result.OverallIndex,
				RiskLevel:    c.result.RiskLevel,
				StandardCode: cfg.Standard,
				ComputedAt:   time.Now().UTC(),
			}
			for _, sub := range c.result.SubIndices {
				result.SubIndices = append(result.SubIndices, samples.ResultSubIndex{
					ID:               uuid.New(),
					ResultID:         result.ID,
					Metal:            sub.Metal,
					QualityIndex:     sub.QualityIndex,
					Weight:           sub.Weight,
					ConcentrationMgL: sub.Concentration,
					PermissibleLimit: sub.PermissibleLimit,
					Exceeded:         sub.Exceeded,
				})
			}

			if err := tx.Create(&sample).Error; err != nil {
				return fmt.Errorf("insert sample %s: %w", c.g.location, err)
			}
			if err := tx.Create(&result).Error; err != nil {
				return fmt.Errorf("insert result for %s: %w", c.g.location, err)
			}
		}

		log.Printf("imported %d samples", len(results))
		return nil
	})
}

// groupRows clusters CSV rows into samples keyed by location and
// collection time, with a deterministic output order.
func groupRows(rows []Row) []group {
	byKey := map[string]*group{}
	for _, r := range rows {
		key := r.Location + "|" + r.CollectedAt.UTC().Format(time.RFC3339)
		g, ok := byKey[key]
		if !ok {
			g = &group{
				location:    r.Location,
				latitude:    r.Latitude,
				longitude:   r.Longitude,
				collectedAt: r.CollectedAt,
			}
			byKey[key] = g
		}
		g.readings = append(g.readings, hmpi.MetalReading{
			Metal:         hmpi.CanonicalMetal(r.Metal),
			Concentration: r.Concentration,
			Unit:          hmpi.Unit(r.Unit),
		})
		g.originals = append(g.originals, r)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]group, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

func originalValue(rows []Row, metal string) float64 {
	for _, r := range rows {
		if hmpi.CanonicalMetal(r.Metal) == metal {
			return r.Concentration
		}
	}
	return 0
}

func originalUnit(rows []Row, metal string) string {
	for _, r := range rows {
		if hmpi.CanonicalMetal(r.Metal) == metal {
			return r.Unit
		}
	}
	return string(hmpi.UnitMgL)
}
