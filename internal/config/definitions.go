package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/histkit/internal/models"
)

// definitionsFile is the YAML layout of a histogram definitions file:
//
//	histograms:
//	  - name: energy
//	    path: ge/clover1
//	    axes:
//	      - {channels: 4096, left: 0, right: 4096, title: keV}
type definitionsFile struct {
	Histograms []models.Definition `yaml:"histograms"`
}

// LoadDefinitions reads histogram definitions from a YAML file.
func LoadDefinitions(path string) ([]models.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes histogram definitions and rejects duplicate keys.
func ParseDefinitions(data []byte) ([]models.Definition, error) {
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}

	seen := make(map[string]bool, len(file.Histograms))
	for _, def := range file.Histograms {
		if def.Name == "" {
			return nil, fmt.Errorf("definition without a name")
		}
		if seen[def.Key()] {
			return nil, fmt.Errorf("duplicate definition %q", def.Key())
		}
		seen[def.Key()] = true
	}

	return file.Histograms, nil
}
