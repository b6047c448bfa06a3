package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/votojudicial/backend/internal/ine"
)

type catalogsFile struct {
	Catalogs []ine.Source `yaml:"catalogs"`
}

// LoadSources reads catalog sources from a YAML file:
//
//	catalogs:
//	  - key: salaSuperior
//	    url: https://example.org/magistraturaSalaSuperior.json
func LoadSources(path string) ([]ine.Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogs file: %w", err)
	}
	var f catalogsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalogs file: %w", err)
	}
	if len(f.Catalogs) == 0 {
		return nil, fmt.Errorf("catalogs file %s lists no catalogs", path)
	}
	for i, s := range f.Catalogs {
		if s.Key == "" || s.URL == "" {
			return nil, fmt.Errorf("catalogs file %s: entry %d needs key and url", path, i)
		}
	}
	return f.Catalogs, nil
}
