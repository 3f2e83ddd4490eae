package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes each feature to zero mean and unit variance,
// with statistics learned from the training partition only.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// Fit learns per-feature mean and standard deviation. A constant column gets
// a unit deviation so scaling stays a no-op for it.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit scaler")
	}
	numFeatures := len(X[0])
	s.Means = make([]float64, numFeatures)
	s.Stds = make([]float64, numFeatures)

	column := make([]float64, len(X))
	for j := 0; j < numFeatures; j++ {
		for i, row := range X {
			column[i] = row[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 {
			std = 1
		}
		s.Means[j] = mean
		s.Stds[j] = std
	}
	return nil
}

// TransformRow standardizes a single row, returning a copy.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if j < len(s.Means) {
			out[j] = (v - s.Means[j]) / s.Stds[j]
		} else {
			out[j] = v
		}
	}
	return out
}

// Transform applies TransformRow to every row.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}
