// Package inference serves predictions from a loaded model bundle. The bundle
// is loaded once, treated as immutable read-only state afterwards, and shared
// by all requests; the fitted pipeline guarantees read-only inference, so no
// locking happens here.
package inference

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/herdsense/prenhez-api/pkg/bundle"
	"github.com/herdsense/prenhez-api/pkg/models"
)

// Predictor is the classification surface the service needs from a fitted
// pipeline. Proba is best-effort: implementations that cannot produce a
// calibrated probability return an error and the service substitutes a
// neutral confidence instead of failing the prediction.
type Predictor interface {
	Predict(row []float64) (int, error)
	Proba(row []float64) (float64, error)
}

// Service answers prediction requests against one loaded bundle.
type Service struct {
	predictor Predictor
	features  []string
	metadata  bundle.Metadata
}

// New wraps a loaded bundle. Construction fails instead of deferring the
// check to call sites.
func New(b *bundle.Bundle) (*Service, error) {
	if b == nil || b.Pipeline == nil || len(b.Features) == 0 {
		return nil, ErrModelUnavailable
	}
	return &Service{
		predictor: b.Pipeline,
		features:  b.Features,
		metadata:  b.Metadata,
	}, nil
}

// Load reads the bundle artifact and builds a service over it.
func Load(path string) (*Service, error) {
	b, err := bundle.Load(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

// Features returns the required feature list in bundle order.
func (s *Service) Features() []string {
	out := make([]string, len(s.features))
	copy(out, s.features)
	return out
}

// Metadata returns the bundle's training metadata.
func (s *Service) Metadata() bundle.Metadata {
	return s.metadata
}

// Predict validates the input against the required feature list, assembles a
// single-row vector in bundle order and runs it through the pipeline. The
// returned sanitized map holds the coerced numeric values actually used.
func (s *Service) Predict(input map[string]any) (*models.PredictionResult, map[string]float64, error) {
	if s == nil || s.predictor == nil {
		return nil, nil, ErrModelUnavailable
	}

	missing := make([]string, 0)
	for _, name := range s.features {
		if _, ok := input[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingFeaturesError{Missing: missing, Required: s.Features()}
	}

	row := make([]float64, len(s.features))
	sanitized := make(map[string]float64, len(s.features))
	for i, name := range s.features {
		v, err := coerceNumeric(input[name])
		if err != nil {
			return nil, nil, &BadValueError{Feature: name, Value: input[name]}
		}
		row[i] = v
		sanitized[name] = v
	}

	prediction, err := s.predictor.Predict(row)
	if err != nil {
		return nil, nil, err
	}

	probability, err := s.predictor.Proba(row)
	if err != nil {
		// Degraded, not failed: fall back to a neutral confidence.
		log.Printf("probability unavailable, using neutral confidence: %v", err)
		probability = 0.5
	}

	return models.NewPredictionResult(prediction, probability), sanitized, nil
}

// coerceNumeric interprets the JSON-decoded value as a float64. Numeric
// strings are accepted, matching the loose typing of field payloads.
func coerceNumeric(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case json.Number:
		return value.Float64()
	case string:
		return strconv.ParseFloat(value, 64)
	default:
		return 0, &BadValueError{Value: v}
	}
}
