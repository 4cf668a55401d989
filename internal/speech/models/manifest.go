// Package models tracks which inference model files are present on disk.
// The service refuses classification while required files are missing, so
// model downloads can finish after startup without crashing requests.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelSpec names a model and the files that must exist, relative to the
// models directory, before that model counts as available.
type ModelSpec struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
}

// Manifest is the models.yaml document.
type Manifest struct {
	Models []ModelSpec `yaml:"models"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}

	for i, spec := range m.Models {
		if spec.Name == "" {
			return nil, fmt.Errorf("manifest %q: model %d has no name", path, i)
		}
	}
	return &m, nil
}
