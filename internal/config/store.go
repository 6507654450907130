// SPDX-License-Identifier: MPL-2.0

// Package config implements the persisted user configuration: a key/value
// mapping backed by a YAML file, with automatic flush-on-write and
// default-diff suppression.
//
// Exactly one Store is created per process, by the command dispatcher, and
// passed by reference to every component that reads or writes it. The model
// assumes a single interactive user; concurrent CLI invocations against the
// same file may race (last writer wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/rnanosaur/nanosaur-cli/internal/issue"
)

// ErrKeyNotFound is returned by Value for absent keys.
var ErrKeyNotFound = errors.New("config key not found")

// LoadError reports a configuration file that exists but cannot be parsed.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot parse config file %s: %v", e.Path, e.Err)
}

// Unwrap returns issue.ErrConfigLoad so callers can use errors.Is for
// programmatic detection.
func (e *LoadError) Unwrap() error { return issue.ErrConfigLoad }

// Store is the persisted configuration mapping. Keys the core does not
// recognize round-trip losslessly; they are carried in the mapping and
// written back untouched.
type Store struct {
	values   map[string]any
	baseline map[string]any
	path     string
}

// Load builds a store seeded from the file at path when it exists, from
// defaults otherwise. A file that exists but is not valid YAML yields a
// *LoadError. An empty path creates an ephemeral store that never writes.
//
// The file is decoded with yaml.v3 rather than a config framework: keys must
// come back exactly as written (case, dots and all) so that fields owned by
// newer CLIs survive a rewrite by this one.
func Load(defaults map[string]any, path string) (*Store, error) {
	seed := cloneMap(defaults)
	if seed == nil {
		seed = map[string]any{}
	}

	if path != "" && fileExists(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		var parsed map[string]any
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		if parsed == nil {
			parsed = map[string]any{}
		}
		seed = parsed
	}

	return &Store{
		values:   seed,
		baseline: cloneMap(seed),
		path:     path,
	}, nil
}

// Path returns the backing file path, empty for ephemeral stores.
func (s *Store) Path() string { return s.path }

// Get returns the value for key, or def when absent. It never fails.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Value returns the value for key, or ErrKeyNotFound when absent.
func (s *Store) Value(key string) (any, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrKeyNotFound)
	}
	return v, nil
}

// Set mutates the mapping and persists immediately, subject to the dirty
// check: nothing is written while the mapping still equals the seed it was
// loaded from.
func (s *Store) Set(key string, value any) error {
	s.values[key] = value
	return s.Save()
}

// Record mutates the mapping and always writes, dirty or not. This is the
// call pattern for recording a discovered fact, where freshness on disk
// matters more than write suppression.
func (s *Store) Record(key string, value any) error {
	s.values[key] = value
	if s.path == "" {
		return nil
	}
	return s.write()
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Delete removes key from the mapping. No implicit save.
func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// Save writes the mapping to the backing file, but only when a path was
// provided and the mapping differs from the originally loaded seed. Pristine
// runs therefore leave the file untouched.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	if reflect.DeepEqual(s.values, s.baseline) {
		return nil
	}
	return s.write()
}

func (s *Store) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current mapping.
func (s *Store) Snapshot() map[string]any {
	return cloneMap(s.values)
}

// GetString returns the value for key coerced to a string, def when absent.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.values[key]; ok {
		return cast.ToString(v)
	}
	return def
}

// GetBool returns the value for key coerced to a bool, def when absent.
func (s *Store) GetBool(key string, def bool) bool {
	if v, ok := s.values[key]; ok {
		return cast.ToBool(v)
	}
	return def
}

// GetInt returns the value for key coerced to an int, def when absent.
func (s *Store) GetInt(key string, def int) int {
	if v, ok := s.values[key]; ok {
		return cast.ToInt(v)
	}
	return def
}

// GetStringMap returns the nested mapping under key, nil when absent.
func (s *Store) GetStringMap(key string) map[string]any {
	v, ok := s.values[key]
	if !ok {
		return nil
	}
	return cast.ToStringMap(v)
}

// cloneMap deep-copies a mapping of YAML-shaped values (nested maps, slices,
// scalars). The baseline for the dirty check must not alias live values.
func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
