package standards

import (
	"time"

	"github.com/google/uuid"
)

// Standard is one named regulatory standard, e.g. WHO-2024.
type Standard struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Limits []MetalLimit `gorm:"foreignKey:StandardID" json:"limits,omitempty"`
	Bands  []RiskBand   `gorm:"foreignKey:StandardID" json:"bands,omitempty"`
}

func (Standard) TableName() string {
	return "standards.standards"
}

// MetalLimit is one metal's permissible limit and background reference
// value under a standard. Stored in the unit the standard publishes;
// the engine converts to mg/L.
type MetalLimit struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	StandardID       uuid.UUID `gorm:"type:uuid;not null;index:idx_limit_standard_metal,unique" json:"standard_id"`
	Metal            string    `gorm:"not null;index:idx_limit_standard_metal,unique" json:"metal"`
	PermissibleLimit float64   `gorm:"not null" json:"permissible_limit"`
	IdealValue       float64   `gorm:"default:0" json:"ideal_value"`
	Unit             string    `gorm:"not null;default:'mg/L'" json:"unit"`
}

func (MetalLimit) TableName() string {
	return "standards.metal_limits"
}

// RiskBand is one classifier band for a standard. Upper is the exclusive
// upper bound of the band; NULL marks the final, unbounded band.
type RiskBand struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	StandardID uuid.UUID `gorm:"type:uuid;not null;index" json:"standard_id"`
	Upper      *float64  `json:"upper,omitempty"`
	Level      string    `gorm:"not null" json:"level"`
	SortOrder  int       `gorm:"default:0" json:"sort_order"`
}

func (RiskBand) TableName() string {
	return "standards.risk_bands"
}
