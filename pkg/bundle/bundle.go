// Package bundle persists the unit of deployment: a fitted pipeline, the
// ordered feature list it was fitted with, and training metadata. Reads and
// writes are all-or-nothing; a bundle that fails to load is unusable, never
// partially usable.
package bundle

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/herdsense/prenhez-api/pkg/pipeline"
)

// Version identifies the artifact layout. Load rejects artifacts written by
// an incompatible layout.
const Version = 1

// Metadata describes the training run that produced the bundle. The accuracy
// and class-distribution figures are informational only; they are never
// re-validated against the loaded pipeline.
type Metadata struct {
	ModelType         string         `json:"model_type"`
	NumFeatures       int            `json:"n_features"`
	TrainingDate      time.Time      `json:"training_date"`
	Accuracy          float64        `json:"accuracy,omitempty"`
	NumSamples        int            `json:"n_samples,omitempty"`
	ClassDistribution map[string]int `json:"class_distribution,omitempty"`
}

// Bundle pairs a fitted pipeline with its required feature contract. Features
// defines both request validation and column order for the pipeline's entire
// deployed lifetime; a new contract means a new bundle.
type Bundle struct {
	Version  int
	Pipeline *pipeline.Pipeline
	Features []string
	Metadata Metadata
}

// Save writes the bundle atomically: it encodes to a temporary file in the
// target directory and renames it into place, so a crashed write never leaves
// a truncated artifact behind.
func Save(path string, b *Bundle) error {
	if b.Pipeline == nil || !b.Pipeline.Fitted {
		return fmt.Errorf("refusing to save unfitted pipeline")
	}
	if len(b.Features) == 0 {
		return fmt.Errorf("refusing to save bundle with empty feature list")
	}
	b.Version = Version

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bundle-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// Load reads a bundle back. Every component must deserialize and pass basic
// shape checks, or the load fails entirely.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("unsupported bundle version %d (want %d)", b.Version, Version)
	}
	if b.Pipeline == nil || !b.Pipeline.Fitted {
		return nil, fmt.Errorf("bundle contains no fitted pipeline")
	}
	if len(b.Features) == 0 {
		return nil, fmt.Errorf("bundle contains no feature list")
	}
	return &b, nil
}
