package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/cache"
	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/AquaIndex/HMPI-Backend/internal/samples"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Re-derives every stored result from its sample's readings against the
// current limit tables. Run after an admin edits a standard's limits.
func main() {
	standardCode := flag.String("standard", "", "only recompute samples evaluated against this standard")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()
	cache.Init()

	query := db.DB.Preload("Readings")
	if *standardCode != "" {
		query = query.Where("standard_code = ?", *standardCode)
	}

	var all []samples.Sample
	if err := query.Find(&all).Error; err != nil {
		log.Fatalf("Failed to load samples: %v", err)
	}

	tables := map[string]hmpi.LimitTable{}
	bandsByCode := map[string][]hmpi.RiskBand{}

	var changed, failed int
	for _, sample := range all {
		table, ok := tables[sample.StandardCode]
		if !ok {
			var err error
			var bands []hmpi.RiskBand
			table, bands, err = standards.Lookup(sample.StandardCode)
			if err != nil {
				log.Printf("Skipping %s: %v", sample.ID, err)
				failed++
				continue
			}
			tables[sample.StandardCode] = table
			bandsByCode[sample.StandardCode] = bands
		}

		readings := make([]hmpi.MetalReading, 0, len(sample.Readings))
		for _, sr := range sample.Readings {
			readings = append(readings, hmpi.MetalReading{
				Metal:         sr.Metal,
				Concentration: sr.ConcentrationMgL,
				Unit:          hmpi.UnitMgL,
			})
		}

		result, err := hmpi.Compute(hmpi.Input{
			Location:  sample.Location,
			Timestamp: sample.CollectedAt,
			Standard:  sample.StandardCode,
			Readings:  readings,
		}, table, bandsByCode[sample.StandardCode])
		if err != nil {
			log.Printf("Skipping %s: %v", sample.ID, err)
			failed++
			continue
		}

		if err := replaceResult(sample, result); err != nil {
			log.Printf("Failed to store result for %s: %v", sample.ID, err)
			failed++
			continue
		}
		if err := cache.InvalidateResult(context.Background(), sample.ID.String()); err != nil {
			log.Printf("Failed to invalidate cache for %s: %v", sample.ID, err)
		}
		changed++
	}

	fmt.Printf("Recomputed %d samples (%d skipped)\n", changed, failed)
}

func replaceResult(sample samples.Sample, result *hmpi.AggregateResult) error {
	stored := samples.Result{
		ID:           uuid.New(),
		SampleID:     sample.ID,
		OverallIndex: result.OverallIndex,
		RiskLevel:    result.RiskLevel,
		StandardCode: sample.StandardCode,
		ComputedAt:   time.Now().UTC(),
	}
	for _, sub := range result.SubIndices {
		stored.SubIndices = append(stored.SubIndices, samples.ResultSubIndex{
			ID:               uuid.New(),
			ResultID:         stored.ID,
			Metal:            sub.Metal,
			QualityIndex:     sub.QualityIndex,
			Weight:           sub.Weight,
			ConcentrationMgL: sub.Concentration,
			PermissibleLimit: sub.PermissibleLimit,
			Exceeded:         sub.Exceeded,
		})
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		var old samples.Result
		err := tx.First(&old, "sample_id = ?", sample.ID).Error
		if err == nil {
			if err := tx.Where("result_id = ?", old.ID).Delete(&samples.ResultSubIndex{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&old).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(&stored).Error
	})
}
