package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"missioncore/internal/domain/predictive"
)

// LoadCatalog returns the built-in scenario and countermeasure catalog, overlaid by the
// YAML file at path when path is non-empty. File records replace built-ins with the
// same id.
func LoadCatalog(path string) (predictive.Catalog, error) {
	catalog := predictive.DefaultCatalog()
	if path == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return predictive.Catalog{}, fmt.Errorf("reading catalog file: %w", err)
	}
	var fileCatalog predictive.Catalog
	if err := yaml.Unmarshal(data, &fileCatalog); err != nil {
		return predictive.Catalog{}, fmt.Errorf("parsing catalog file: %w", err)
	}
	for _, s := range fileCatalog.Scenarios {
		if s.ID == "" {
			return predictive.Catalog{}, fmt.Errorf("catalog scenario without id")
		}
		if s.DurationDays < 0 {
			return predictive.Catalog{}, fmt.Errorf("catalog scenario %s has negative duration", s.ID)
		}
	}
	for _, cm := range fileCatalog.Countermeasures {
		if cm.ID == "" {
			return predictive.Catalog{}, fmt.Errorf("catalog countermeasure without id")
		}
	}
	return catalog.Merge(fileCatalog), nil
}
