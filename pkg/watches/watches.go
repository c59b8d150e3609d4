// Package watches contains pluggable watch configs (YAML/JSON) helpers.
package watches

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Watch describes one polling rule: which device to follow and how far
// back each poll should look. A watch with no device fields follows the
// whole fleet.
type Watch struct {
	ID              string `json:"id" yaml:"id"`
	DeviceID        string `json:"device_id" yaml:"device_id"`
	DeviceName      string `json:"device_name" yaml:"device_name"`
	Query           string `json:"query" yaml:"query"`
	LookbackSeconds int    `json:"lookback_seconds" yaml:"lookback_seconds"`
	Enabled         *bool  `json:"enabled" yaml:"enabled"`
}

// configFile represents the structure of the watches configuration file.
type configFile struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// ConfigRegistry materializes watch definitions loaded from config files.
type ConfigRegistry struct {
	mu      sync.RWMutex
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads the watch registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watches file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watches file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watches file: %w", err)
	}

	fileReg, err := parseWatchRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Watches) == 0 {
		return nil, errors.New("watches file contains no watches entries")
	}

	reg := &ConfigRegistry{
		watches: make([]Watch, len(fileReg.Watches)),
		idx:     make(map[string]Watch, len(fileReg.Watches)),
	}

	for i := range fileReg.Watches {
		w := sanitizeWatch(fileReg.Watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watches[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches[i] = w
		reg.idx[w.ID] = w
	}

	return reg, nil
}

// parseWatchRegistry attempts to decode the watches file content.
func parseWatchRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalWatchRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("watches file format not recognized (expected YAML or JSON)")
}

// unmarshalWatchRegistry decodes the watches file using the provided function.
func unmarshalWatchRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s watches: %w", name, err)
	}
	return reg, nil
}

// sanitizeWatch trims and normalizes the watch fields.
func sanitizeWatch(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.DeviceID = strings.TrimSpace(w.DeviceID)
	w.DeviceName = strings.TrimSpace(w.DeviceName)
	w.Query = strings.TrimSpace(w.Query)

	if w.Enabled == nil {
		def := true
		w.Enabled = &def
	}

	return w
}

// validateWatch checks that required fields are present.
func validateWatch(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.DeviceID != "" && w.DeviceName != "" {
		return fmt.Errorf("watch %q sets both device_id and device_name", w.ID)
	}
	if w.LookbackSeconds < 0 {
		return fmt.Errorf("lookback_seconds must not be negative for watch %q", w.ID)
	}
	return nil
}

// ByID returns the watch entry by id.
func (r *ConfigRegistry) ByID(id string) (Watch, bool) {
	if r == nil {
		return Watch{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Watch{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.idx[id]
	return w, ok
}

// All returns all configured watches.
func (r *ConfigRegistry) All() []Watch {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// Enabled returns watches that are enabled.
func (r *ConfigRegistry) Enabled() []Watch {
	if r == nil {
		return nil
	}

	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Watch, 0, len(all))
	for _, w := range all {
		if w.EnabledValue() {
			out = append(out, w)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (w Watch) EnabledValue() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}

// Lookback returns the per-watch poll window, falling back to def when
// the watch does not set one.
func (w Watch) Lookback(def time.Duration) time.Duration {
	if w.LookbackSeconds > 0 {
		return time.Duration(w.LookbackSeconds) * time.Second
	}
	return def
}
