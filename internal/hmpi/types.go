package hmpi

import "time"

// Unit is a concentration unit accepted at the engine boundary.
// mg/L is the canonical unit; ppm and ppb are converted on the way in.
type Unit string

const (
	UnitMgL Unit = "mg/L"
	UnitPPM Unit = "ppm"
	UnitPPB Unit = "ppb"
)

// MetalReading is one measured concentration for one contaminant.
type MetalReading struct {
	Metal         string  `json:"metal"`
	Concentration float64 `json:"concentration"`
	Unit          Unit    `json:"unit"`
}

// Limit is one metal's regulatory entry under a named standard.
type Limit struct {
	PermissibleLimit float64 `json:"permissible_limit"`
	IdealValue       float64 `json:"ideal_value"`
	Unit             Unit    `json:"unit"`
}

// LimitTable maps a metal name to its limit entry for one standard.
type LimitTable map[string]Limit

// SubIndex is the per-metal pollution contribution (Q_i).
// A QualityIndex of 100 means the reading sits exactly at the
// permissible limit.
type SubIndex struct {
	Metal            string  `json:"metal"`
	QualityIndex     float64 `json:"quality_index"`
	Weight           float64 `json:"weight"`
	Concentration    float64 `json:"concentration"` // mg/L
	PermissibleLimit float64 `json:"permissible_limit"`
	Exceeded         bool    `json:"exceeded"`
}

// RiskBand is one classifier band. Bands are closed on the lower end
// and open on the upper end; Upper == nil marks the last, unbounded band.
type RiskBand struct {
	Upper *float64 `json:"upper,omitempty"`
	Level string   `json:"level"`
}

// Input is one computation request: a located, timestamped reading set
// evaluated against a named standard.
type Input struct {
	Location  string
	Timestamp time.Time
	Standard  string
	Readings  []MetalReading
}

// AggregateResult is the complete outcome of one computation. It is
// derived fresh from a reading set and a limit table and never mutated.
type AggregateResult struct {
	OverallIndex float64    `json:"overall_index"`
	RiskLevel    string     `json:"risk_level"`
	Location     string     `json:"location"`
	Timestamp    time.Time  `json:"timestamp"`
	Standard     string     `json:"standard"`
	SubIndices   []SubIndex `json:"sub_indices"`
}
