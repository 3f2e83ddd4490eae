// Package pipeline implements the fit-once preprocessing and classification
// chain: median imputation, standardization and a class-weighted random
// forest, composed into one deployable unit. A fitted pipeline is immutable;
// inference only reads the learned parameters, which is what lets the serving
// layer share one pipeline across concurrent requests without locking.
package pipeline

import "fmt"

// Pipeline chains the fitted transformers and classifier. Rows handed to
// Predict/Proba must follow the same feature order the pipeline was fitted
// with; the bundle's feature list is the authority on that order.
type Pipeline struct {
	Imputer *MedianImputer
	Scaler  *StandardScaler
	Forest  *RandomForest
	Fitted  bool
}

// New creates an unfitted pipeline with the given forest configuration.
func New(cfg ForestConfig) *Pipeline {
	return &Pipeline{
		Imputer: &MedianImputer{},
		Scaler:  &StandardScaler{},
		Forest:  NewRandomForest(cfg),
	}
}

// Fit learns imputation medians and scaling statistics from the training rows
// only, then trains the classifier on the transformed matrix.
func (p *Pipeline) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no training data provided")
	}
	if err := p.Imputer.Fit(X); err != nil {
		return fmt.Errorf("failed to fit imputer: %w", err)
	}
	imputed := p.Imputer.Transform(X)

	if err := p.Scaler.Fit(imputed); err != nil {
		return fmt.Errorf("failed to fit scaler: %w", err)
	}
	scaled := p.Scaler.Transform(imputed)

	if err := p.Forest.Fit(scaled, y); err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}
	p.Fitted = true
	return nil
}

func (p *Pipeline) transformRow(row []float64) []float64 {
	return p.Scaler.TransformRow(p.Imputer.TransformRow(row))
}

// Predict runs one row through the fitted transform and classifier.
func (p *Pipeline) Predict(row []float64) (int, error) {
	if !p.Fitted {
		return 0, fmt.Errorf("pipeline is not fitted")
	}
	return p.Forest.Predict(p.transformRow(row))
}

// Proba returns the positive-class probability for one row.
func (p *Pipeline) Proba(row []float64) (float64, error) {
	if !p.Fitted {
		return 0, fmt.Errorf("pipeline is not fitted")
	}
	return p.Forest.Proba(p.transformRow(row))
}

// PredictAll classifies every row, for held-out evaluation.
func (p *Pipeline) PredictAll(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, row := range X {
		pred, err := p.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = pred
	}
	return out, nil
}
