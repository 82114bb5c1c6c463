package standards

import (
	"fmt"
	"os"

	"github.com/AquaIndex/HMPI-Backend/internal/hmpi"
	"github.com/goccy/go-yaml"
)

// SeedFile is the on-disk shape of config/standards.yaml.
type SeedFile struct {
	Standards []SeedStandard `yaml:"standards"`
}

type SeedStandard struct {
	Code   string      `yaml:"code"`
	Name   string      `yaml:"name"`
	Year   int         `yaml:"year"`
	Limits []SeedLimit `yaml:"limits"`
	Bands  []SeedBand  `yaml:"bands"`
}

type SeedLimit struct {
	Metal            string  `yaml:"metal"`
	PermissibleLimit float64 `yaml:"permissible_limit"`
	IdealValue       float64 `yaml:"ideal_value"`
	Unit             string  `yaml:"unit"`
}

type SeedBand struct {
	// Upper is omitted on the final band, which is unbounded above.
	Upper *float64 `yaml:"upper"`
	Level string   `yaml:"level"`
}

// LoadSeedFile reads and parses a standards YAML file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed parses standards YAML and applies basic shape checks so a
// malformed file fails at seed time, not at first computation.
func ParseSeed(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse standards yaml: %w", err)
	}

	if len(file.Standards) == 0 {
		return nil, fmt.Errorf("standards yaml contains no standards")
	}
	for _, s := range file.Standards {
		if s.Code == "" {
			return nil, fmt.Errorf("standard with empty code")
		}
		if len(s.Limits) == 0 {
			return nil, fmt.Errorf("standard %s has no limits", s.Code)
		}
		if len(s.Bands) == 0 {
			return nil, fmt.Errorf("standard %s has no risk bands", s.Code)
		}
		seen := make(map[string]struct{}, len(s.Limits))
		for _, l := range s.Limits {
			if l.Metal == "" {
				return nil, fmt.Errorf("standard %s has a limit with no metal", s.Code)
			}
			metal := hmpi.CanonicalMetal(l.Metal)
			if _, dup := seen[metal]; dup {
				return nil, fmt.Errorf("standard %s lists %s twice", s.Code, metal)
			}
			seen[metal] = struct{}{}
			if l.IdealValue < 0 {
				return nil, fmt.Errorf("standard %s: %s has a negative ideal value", s.Code, metal)
			}
			if l.PermissibleLimit <= l.IdealValue {
				return nil, fmt.Errorf("standard %s: %s permissible limit must exceed ideal value", s.Code, metal)
			}
		}
	}

	return &file, nil
}
