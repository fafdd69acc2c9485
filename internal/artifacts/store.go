// Package artifacts persists the three training outputs the service cannot
// run without: the trained model, the frozen scaler and the feature schema.
// The on-disk format round-trips the exact in-memory structures and is not
// part of any external contract.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/telephonyinc/incident-forecaster/internal/model"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

// Artifact file names inside the data directory.
const (
	ModelFile  = "incident_model.json"
	ScalerFile = "incident_scaler.json"
	SchemaFile = "feature_order.json"
)

// LoadError reports a required artifact that is missing or unreadable. At
// process start this is fatal: no correct prediction is possible without
// model, scaler and schema.
type LoadError struct {
	Artifact string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load artifact %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store reads and writes artifacts under a single data directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists all three artifacts. Training always writes them together;
// a data directory never holds a model without its matching schema.
func (s *Store) Save(sc *schema.Schema, scaler *model.MinMaxScaler, m *model.LinearModel) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	if err := s.writeJSON(SchemaFile, sc); err != nil {
		return err
	}
	if err := s.writeJSON(ScalerFile, scaler); err != nil {
		return err
	}
	return s.writeJSON(ModelFile, m)
}

// Load reads all three artifacts back. The returned values are exactly what
// Save persisted; in particular the schema column order is byte-for-byte the
// training-time order.
func (s *Store) Load() (*schema.Schema, *model.MinMaxScaler, *model.LinearModel, error) {
	var sc schema.Schema
	if err := s.readJSON(SchemaFile, &sc); err != nil {
		return nil, nil, nil, err
	}

	var scaler model.MinMaxScaler
	if err := s.readJSON(ScalerFile, &scaler); err != nil {
		return nil, nil, nil, err
	}

	var m model.LinearModel
	if err := s.readJSON(ModelFile, &m); err != nil {
		return nil, nil, nil, err
	}

	return &sc, &scaler, &m, nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact file %s: %w", name, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)

	file, err := os.Open(path)
	if err != nil {
		return &LoadError{Artifact: name, Err: err}
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return &LoadError{Artifact: name, Err: err}
	}
	return nil
}
