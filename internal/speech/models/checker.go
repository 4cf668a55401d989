package models

import (
	"os"
	"path/filepath"
	"sync"
)

// Checker reports model availability based on a manifest and the files
// currently present under the models directory.
type Checker struct {
	dir          string
	manifestPath string

	mu        sync.RWMutex
	available map[string]bool
}

// NewChecker creates a checker for the given models directory. The manifest
// is expected at dir/models.yaml.
func NewChecker(dir string) *Checker {
	return &Checker{
		dir:          dir,
		manifestPath: filepath.Join(dir, "models.yaml"),
		available:    make(map[string]bool),
	}
}

// Reload re-reads the manifest and re-checks every listed file. A missing or
// unparsable manifest marks everything unavailable.
func (c *Checker) Reload() error {
	manifest, err := LoadManifest(c.manifestPath)
	if err != nil {
		c.mu.Lock()
		c.available = make(map[string]bool)
		c.mu.Unlock()
		return err
	}

	available := make(map[string]bool, len(manifest.Models))
	for _, spec := range manifest.Models {
		available[spec.Name] = c.filesPresent(spec.Files)
	}

	c.mu.Lock()
	c.available = available
	c.mu.Unlock()
	return nil
}

func (c *Checker) filesPresent(files []string) bool {
	for _, f := range files {
		info, err := os.Stat(filepath.Join(c.dir, f))
		if err != nil || info.IsDir() || info.Size() == 0 {
			return false
		}
	}
	return true
}

// Available reports whether the named model has all its files on disk.
func (c *Checker) Available(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available[name]
}

// Snapshot returns the availability of every known model.
func (c *Checker) Snapshot() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]bool, len(c.available))
	for k, v := range c.available {
		out[k] = v
	}
	return out
}
