package models

import "math"

// Human-readable class labels of the serving contract.
const (
	LabelPregnant    = "SIM"
	LabelNotPregnant = "NÃO"
)

// PredictionResult is the outcome of one inference call.
type PredictionResult struct {
	Prediction        int     `json:"prediction"`
	Label             string  `json:"prenhez"`
	Confidence        float64 `json:"confidence"`
	ConfidencePercent float64 `json:"confidence_percent"`
}

// NewPredictionResult derives the full result from the binary class and the
// positive-class probability.
func NewPredictionResult(prediction int, probability float64) *PredictionResult {
	label := LabelNotPregnant
	if prediction == 1 {
		label = LabelPregnant
	}
	return &PredictionResult{
		Prediction:        prediction,
		Label:             label,
		Confidence:        probability,
		ConfidencePercent: RoundPercent(probability),
	}
}

// RoundPercent converts a 0..1 probability to a 0..100 percentage with
// two-decimal rounding.
func RoundPercent(probability float64) float64 {
	return math.Round(probability*100*100) / 100
}
