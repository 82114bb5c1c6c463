package samples

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/alerts"
	"github.com/AquaIndex/HMPI-Backend/internal/cache"
	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/AquaIndex/HMPI-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// engineErrStatus maps the engine's validation errors onto HTTP
// statuses. Every engine failure is terminal input validation, so they
// all land in 422; anything else is a server fault.
func engineErrStatus(err error) int {
	switch {
	case errors.Is(err, hmpi.ErrInvalidReading),
		errors.Is(err, hmpi.ErrInvalidLimit),
		errors.Is(err, hmpi.ErrUnsupportedUnit),
		errors.Is(err, hmpi.ErrEmptyInput),
		errors.Is(err, hmpi.ErrDuplicateMetal),
		errors.Is(err, hmpi.ErrInvalidThresholds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type ReadingInput struct {
	Metal         string  `json:"metal"`
	Concentration float64 `json:"concentration"`
	Unit          string  `json:"unit"`
}

type SubmitRequest struct {
	Location    string         `json:"location"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Standard    string         `json:"standard"`
	CollectedAt time.Time      `json:"collected_at"`
	Notes       []string       `json:"notes"`
	Readings    []ReadingInput `json:"readings"`
}

// ResultOut is the response document for a computed sample: the full
// AggregateResult plus the stored sample's ID.
type ResultOut struct {
	SampleID string `json:"sample_id"`
	hmpi.AggregateResult
}

// SubmitHandler ingests one reading set, runs the index pipeline against
// the chosen standard, and stores sample, readings, and result in one
// transaction. A validation failure rejects the whole submission; no
// partial rows are written.
func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Location == "" {
		http.Error(w, "Location is required", http.StatusBadRequest)
		return
	}
	if req.Standard == "" {
		http.Error(w, "Standard is required", http.StatusBadRequest)
		return
	}
	if req.CollectedAt.IsZero() {
		req.CollectedAt = time.Now().UTC()
	}

	table, bands, err := standards.Lookup(req.Standard)
	if err != nil {
		http.Error(w, "Standard not found: "+req.Standard, http.StatusNotFound)
		return
	}

	readings := make([]hmpi.MetalReading, 0, len(req.Readings))
	for _, in := range req.Readings {
		readings = append(readings, hmpi.MetalReading{
			Metal:         hmpi.CanonicalMetal(in.Metal),
			Concentration: in.Concentration,
			Unit:          hmpi.Unit(in.Unit),
		})
	}

	result, err := hmpi.Compute(hmpi.Input{
		Location:  req.Location,
		Timestamp: req.CollectedAt,
		Standard:  req.Standard,
		Readings:  readings,
	}, table, bands)
	if err != nil {
		http.Error(w, err.Error(), engineErrStatus(err))
		return
	}

	submittedBy, _ := utils.GetUserIDFromContext(r.Context())

	sample := Sample{
		ID:           uuid.New(),
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		StandardCode: req.Standard,
		CollectedAt:  req.CollectedAt,
		SubmittedBy:  submittedBy,
		Notes:        req.Notes,
	}
	for _, sub := range result.SubIndices {
		sample.Readings = append(sample.Readings, SampleReading{
			ID:               uuid.New(),
			SampleID:         sample.ID,
			Metal:            sub.Metal,
			Concentration:    originalConcentration(req.Readings, sub.Metal),
			Unit:             originalUnit(req.Readings, sub.Metal),
			ConcentrationMgL: sub.Concentration,
		})
	}
	stored := buildResultRows(sample.ID, result)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sample).Error; err != nil {
			return err
		}
		return tx.Create(&stored).Error
	})
	if err != nil {
		http.Error(w, "Failed to store sample: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := ResultOut{SampleID: sample.ID.String(), AggregateResult: *result}
	finishComputed(r, sample, stored, result, out, bands)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, out)
}

// finishComputed handles the post-commit side effects shared by submit
// and recompute: cache fill and, for the highest band, a risk alert.
func finishComputed(r *http.Request, sample Sample, stored Result, result *hmpi.AggregateResult, out ResultOut, bands []hmpi.RiskBand) {
	ctx := r.Context()

	if err := cache.SetResult(ctx, sample.ID.String(), out); err != nil {
		log.Printf("Failed to cache result for %s: %v", sample.ID, err)
	}

	// The unbounded final band is the alert-worthy one.
	if len(bands) > 0 && result.RiskLevel == bands[len(bands)-1].Level {
		alert := alerts.RiskAlert{
			SampleID:     sample.ID.String(),
			Location:     sample.Location,
			Standard:     sample.StandardCode,
			OverallIndex: result.OverallIndex,
			RiskLevel:    result.RiskLevel,
			ComputedAt:   stored.ComputedAt,
		}
		if err := alerts.Publish(ctx, alert); err != nil {
			log.Printf("Failed to publish risk alert for %s: %v", sample.ID, err)
		}
	}
}

func originalConcentration(inputs []ReadingInput, metal string) float64 {
	for _, in := range inputs {
		if hmpi.CanonicalMetal(in.Metal) == metal {
			return in.Concentration
		}
	}
	return 0
}

func originalUnit(inputs []ReadingInput, metal string) string {
	for _, in := range inputs {
		if hmpi.CanonicalMetal(in.Metal) == metal {
			return in.Unit
		}
	}
	return string(hmpi.UnitMgL)
}

func buildResultRows(sampleID uuid.UUID, result *hmpi.AggregateResult) Result {
	stored := Result{
		ID:           uuid.New(),
		SampleID:     sampleID,
		OverallIndex: result.OverallIndex,
		RiskLevel:    result.RiskLevel,
		StandardCode: result.Standard,
		ComputedAt:   time.Now().UTC(),
	}
	for _, sub := range result.SubIndices {
		stored.SubIndices = append(stored.SubIndices, ResultSubIndex{
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
	return stored
}

// ListSamples returns stored samples with optional location and
// standard filters.
func ListSamples(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Model(&Sample{}).Preload("Result")

	if location := r.URL.Query().Get("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if standard := r.URL.Query().Get("standard"); standard != "" {
		query = query.Where("standard_code = ?", standard)
	}

	var list []Sample
	if err := query.Order("collected_at DESC").Find(&list).Error; err != nil {
		http.Error(w, "Failed to fetch samples: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, list)
}

// GetSample returns one sample with its readings and result breakdown.
func GetSample(w http.ResponseWriter, r *http.Request) {
	sampleID := chi.URLParam(r, "sample_id")

	var sample Sample
	err := db.DB.
		Preload("Readings").
		Preload("Result").
		Preload("Result.SubIndices").
		First(&sample, "id = ?", sampleID).Error
	if err != nil {
		http.Error(w, "Sample not found", http.StatusNotFound)
		return
	}

	writeJSON(w, sample)
}

// GetResult returns the computed result for a sample, serving from the
// Redis cache when it can.
func GetResult(w http.ResponseWriter, r *http.Request) {
	sampleID := chi.URLParam(r, "sample_id")

	var cached ResultOut
	hit, err := cache.GetResult(r.Context(), sampleID, &cached)
	if err != nil {
		log.Printf("Result cache read failed for %s: %v", sampleID, err)
	}
	if hit {
		writeJSON(w, cached)
		return
	}

	var sample Sample
	err = db.DB.
		Preload("Result").
		Preload("Result.SubIndices").
		First(&sample, "id = ?", sampleID).Error
	if err != nil || sample.Result == nil {
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}

	out := resultOutFromStored(sample)
	if err := cache.SetResult(r.Context(), sampleID, out); err != nil {
		log.Printf("Failed to cache result for %s: %v", sampleID, err)
	}

	writeJSON(w, out)
}

func resultOutFromStored(sample Sample) ResultOut {
	res := hmpi.AggregateResult{
		OverallIndex: sample.Result.OverallIndex,
		RiskLevel:    sample.Result.RiskLevel,
		Location:     sample.Location,
		Timestamp:    sample.CollectedAt,
		Standard:     sample.Result.StandardCode,
	}
	for _, sub := range sample.Result.SubIndices {
		res.SubIndices = append(res.SubIndices, hmpi.SubIndex{
			Metal:            sub.Metal,
			QualityIndex:     sub.QualityIndex,
			Weight:           sub.Weight,
			Concentration:    sub.ConcentrationMgL,
			PermissibleLimit: sub.PermissibleLimit,
			Exceeded:         sub.Exceeded,
		})
	}
	return ResultOut{SampleID: sample.ID.String(), AggregateResult: res}
}

// Hotspot is one map pin: a location's most recent result.
type Hotspot struct {
	SampleID     uuid.UUID `json:"sample_id"`
	Location     string    `json:"location"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	OverallIndex float64   `json:"overall_index"`
	RiskLevel    string    `json:"risk_level"`
	ComputedAt   time.Time `json:"computed_at"`
}

// GetHotspots returns the latest result per location, optionally
// filtered to one risk level (?level=) or a minimum index (?min=).
func GetHotspots(w http.ResponseWriter, r *http.Request) {
	var hotspots []Hotspot
	err := db.DB.Raw(`
		SELECT DISTINCT ON (s.location)
			s.id AS sample_id, s.location, s.latitude, s.longitude,
			res.overall_index, res.risk_level, res.computed_at
		FROM samples.samples s
		JOIN samples.results res ON res.sample_id = s.id
		ORDER BY s.location, res.computed_at DESC
	`).Scan(&hotspots).Error
	if err != nil {
		http.Error(w, "Failed to fetch hotspots: "+err.Error(), http.StatusInternalServerError)
		return
	}

	level := r.URL.Query().Get("level")
	minIndex := math.Inf(-1)
	if minStr := r.URL.Query().Get("min"); minStr != "" {
		parsed, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			http.Error(w, "Invalid min format", http.StatusBadRequest)
			return
		}
		minIndex = parsed
	}

	filtered := hotspots[:0]
	for _, h := range hotspots {
		if level != "" && h.RiskLevel != level {
			continue
		}
		if h.OverallIndex < minIndex {
			continue
		}
		filtered = append(filtered, h)
	}

	writeJSON(w, filtered)
}

// RecomputeHandler re-derives a sample's result from its stored
// readings against the current limit table. The old result rows are
// replaced wholesale and the cache entry is dropped.
func RecomputeHandler(w http.ResponseWriter, r *http.Request) {
	sampleID := chi.URLParam(r, "sample_id")

	var sample Sample
	err := db.DB.Preload("Readings").First(&sample, "id = ?", sampleID).Error
	if err != nil {
		http.Error(w, "Sample not found", http.StatusNotFound)
		return
	}

	table, bands, err := standards.Lookup(sample.StandardCode)
	if err != nil {
		http.Error(w, "Standard not found: "+sample.StandardCode, http.StatusNotFound)
		return
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
	}, table, bands)
	if err != nil {
		http.Error(w, err.Error(), engineErrStatus(err))
		return
	}

	stored := buildResultRows(sample.ID, result)

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var old Result
		if err := tx.First(&old, "sample_id = ?", sample.ID).Error; err == nil {
			if err := tx.Where("result_id = ?", old.ID).Delete(&ResultSubIndex{}).Error; err != nil {
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
	if err != nil {
		http.Error(w, "Failed to store recomputed result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := cache.InvalidateResult(r.Context(), sampleID); err != nil {
		log.Printf("Failed to invalidate cache for %s: %v", sampleID, err)
	}

	out := ResultOut{SampleID: sample.ID.String(), AggregateResult: *result}
	finishComputed(r, sample, stored, result, out, bands)

	writeJSON(w, out)
}
