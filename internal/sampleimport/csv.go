package sampleimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Row is one CSV line: one metal reading belonging to one sample.
// Lines sharing (location, collected_at) are grouped into a sample.
type Row struct {
	Location      string
	Latitude      float64
	Longitude     float64
	CollectedAt   time.Time
	Metal         string
	Concentration float64
	Unit          string
}

// ParseCSV reads a sampling-campaign export. Required columns:
// location, collected_at (RFC 3339), metal, concentration, unit.
// Optional: latitude, longitude.
func ParseCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	req := []string{"location", "collected_at", "metal", "concentration", "unit"}
	for _, k := range req {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []Row

	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		location := get("location")
		if location == "" {
			return nil, fmt.Errorf("row %d: location is required", rowIdx+1)
		}

		collectedAt, err := time.Parse(time.RFC3339, get("collected_at"))
		if err != nil {
			return nil, fmt.Errorf("row %d: collected_at must be RFC 3339 (got %q)", rowIdx+1, get("collected_at"))
		}

		metal := get("metal")
		if metal == "" {
			return nil, fmt.Errorf("row %d: metal is required", rowIdx+1)
		}

		conc, err := strconv.ParseFloat(get("concentration"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: concentration is not numeric (got %q)", rowIdx+1, get("concentration"))
		}

		unit := get("unit")
		if unit == "" {
			return nil, fmt.Errorf("row %d: unit is required", rowIdx+1)
		}

		var lat, lon float64
		if v := get("latitude"); v != "" {
			if lat, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid latitude %q", rowIdx+1, v)
			}
		}
		if v := get("longitude"); v != "" {
			if lon, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid longitude %q", rowIdx+1, v)
			}
		}

		out = append(out, Row{
			Location:      location,
			Latitude:      lat,
			Longitude:     lon,
			CollectedAt:   collectedAt,
			Metal:         metal,
			Concentration: conc,
			Unit:          unit,
		})
	}

	return out, nil
}
