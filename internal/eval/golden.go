// Package eval scores the assistant's answers against a fixed golden
// question set using a second model as judge.
package eval

import (
	_ "embed"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// GoldenCase is one hand-authored evaluation fixture.
type GoldenCase struct {
	ID         string `yaml:"id"`
	Category   string `yaml:"category"`
	Question   string `yaml:"question"`
	SalesAgent string `yaml:"sales_agent,omitempty"`
}

//go:embed golden_set.yaml
var embeddedGoldenSet []byte

// DefaultGoldenSet returns the embedded fixture shipped with the binary.
func DefaultGoldenSet() ([]GoldenCase, error) {
	return parseGoldenSet(embeddedGoldenSet)
}

// LoadGoldenSet reads an external fixture file.
func LoadGoldenSet(fs afero.Fs, path string) ([]GoldenCase, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden set: %w", err)
	}
	return parseGoldenSet(data)
}

func parseGoldenSet(data []byte) ([]GoldenCase, error) {
	var cases []GoldenCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse golden set: %w", err)
	}
	for i, c := range cases {
		if c.ID == "" || c.Question == "" {
			return nil, fmt.Errorf("golden case %d is missing id or question", i)
		}
	}
	return cases, nil
}

// FilterByCategory keeps only cases in the given category; an empty filter
// keeps everything.
func FilterByCategory(cases []GoldenCase, category string) []GoldenCase {
	if category == "" {
		return cases
	}
	var filtered []GoldenCase
	for _, c := range cases {
		if c.Category == category {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
