package samples

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Sample is one submitted reading set for one location at one point in
// time. Immutable once submitted; its result is derived, never edited.
type Sample struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Location     string         `gorm:"not null;index" json:"location"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	StandardCode string         `gorm:"not null" json:"standard_code"`
	CollectedAt  time.Time      `gorm:"not null" json:"collected_at"`
	SubmittedBy  string         `gorm:"index" json:"submitted_by"`
	Notes        pq.StringArray `gorm:"type:text[]" json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`

	Readings []SampleReading `gorm:"foreignKey:SampleID" json:"readings,omitempty"`
	Result   *Result         `gorm:"foreignKey:SampleID" json:"result,omitempty"`
}

func (Sample) TableName() string {
	return "samples.samples"
}

// SampleReading stores one metal's concentration both as submitted and
// converted to the canonical mg/L.
type SampleReading struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SampleID         uuid.UUID `gorm:"type:uuid;not null;index:idx_reading_sample_metal,unique" json:"sample_id"`
	Metal            string    `gorm:"not null;index:idx_reading_sample_metal,unique" json:"metal"`
	Concentration    float64   `gorm:"not null" json:"concentration"`
	Unit             string    `gorm:"not null" json:"unit"`
	ConcentrationMgL float64   `gorm:"not null" json:"concentration_mg_l"`
}

func (SampleReading) TableName() string {
	return "samples.readings"
}

// Result is the stored aggregate outcome for a sample. Recomputation
// replaces the row wholesale rather than mutating fields.
type Result struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SampleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"sample_id"`
	OverallIndex float64   `gorm:"not null" json:"overall_index"`
	RiskLevel    string    `gorm:"not null" json:"risk_level"`
	StandardCode string    `gorm:"not null" json:"standard_code"`
	ComputedAt   time.Time `gorm:"not null" json:"computed_at"`

	SubIndices []ResultSubIndex `gorm:"foreignKey:ResultID" json:"sub_indices,omitempty"`
}

func (Result) TableName() string {
	return "samples.results"
}

// ResultSubIndex is one metal's contribution row in a stored result.
type ResultSubIndex struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResultID         uuid.UUID `gorm:"type:uuid;not null;index" json:"result_id"`
	Metal            string    `gorm:"not null" json:"metal"`
	QualityIndex     float64   `gorm:"not null" json:"quality_index"`
	Weight           float64   `gorm:"not null" json:"weight"`
	ConcentrationMgL float64   `gorm:"not null" json:"concentration_mg_l"`
	PermissibleLimit float64   `gorm:"not null" json:"permissible_limit"`
	Exceeded         bool      `gorm:"not null" json:"exceeded"`
}

func (ResultSubIndex) TableName() string {
	return "samples.result_sub_indices"
}
