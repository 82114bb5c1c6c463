package standards

import (
	"encoding/json"
	"net/http"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListStandards returns every registered standard without its rows.
func ListStandards(w http.ResponseWriter, r *http.Request) {
	var stds []Standard

	if err := db.DB.Find(&stds).Error; err != nil {
		http.Error(w, "Failed to fetch standards: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stds)
}

// GetStandard returns one standard with its limits and bands.
func GetStandard(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var standard Standard
	err := db.DB.
		Preload("Limits").
		Preload("Bands", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&standard, "code = ?", code).Error
	if err != nil {
		http.Error(w, "Standard not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(standard)
}

// GetLimits returns just the limit rows for a standard.
func GetLimits(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var standard Standard
	if err := db.DB.First(&standard, "code = ?", code).Error; err != nil {
		http.Error(w, "Standard not found", http.StatusNotFound)
		return
	}

	var limits []MetalLimit
	if err := db.DB.Where("standard_id = ?", standard.ID).Order("metal ASC").Find(&limits).Error; err != nil {
		http.Error(w, "Failed to fetch limits: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(limits)
}

// UpsertLimit creates or updates one metal's limit row for a standard.
// Admin only; changing a limit does not touch stored results (use the
// recompute endpoint or cmd/recompute for that).
func UpsertLimit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var input struct {
		Metal            string  `json:"metal"`
		PermissibleLimit float64 `json:"permissible_limit"`
		IdealValue       float64 `json:"ideal_value"`
		Unit             string  `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// Same canonical form readings are keyed by on submit, otherwise a
	// row stored as "lead" can never match a reading's "Lead".
	input.Metal = hmpi.CanonicalMetal(input.Metal)
	if input.Metal == "" {
		http.Error(w, "Metal is required", http.StatusBadRequest)
		return
	}
	if input.PermissibleLimit <= input.IdealValue {
		http.Error(w, "Permissible limit must exceed ideal value", http.StatusUnprocessableEntity)
		return
	}
	if input.Unit == "" {
		input.Unit = "mg/L"
	}

	var standard Standard
	if err := db.DB.First(&standard, "code = ?", code).Error; err != nil {
		http.Error(w, "Standard not found", http.StatusNotFound)
		return
	}

	limit := MetalLimit{
		ID:               uuid.New(),
		StandardID:       standard.ID,
		Metal:            input.Metal,
		PermissibleLimit: input.PermissibleLimit,
		IdealValue:       input.IdealValue,
		Unit:             input.Unit,
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "standard_id"}, {Name: "metal"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissible_limit", "ideal_value", "unit"}),
	}).Create(&limit).Error
	if err != nil {
		http.Error(w, "Failed to upsert limit: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(limit)
}
