package pipeline

import (
	"fmt"
	"math"
	"sort"
)

// MedianImputer fills missing (NaN) cells with the per-feature median learned
// from the training partition.
type MedianImputer struct {
	Medians []float64
}

// Fit learns one median per feature column, ignoring missing cells. A column
// with no observed values gets a zero median.
func (m *MedianImputer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no rows to fit imputer")
	}
	numFeatures := len(X[0])
	m.Medians = make([]float64, numFeatures)

	for j := 0; j < numFeatures; j++ {
		observed := make([]float64, 0, len(X))
		for _, row := range X {
			if !math.IsNaN(row[j]) {
				observed = append(observed, row[j])
			}
		}
		if len(observed) == 0 {
			m.Medians[j] = 0
			continue
		}
		sort.Float64s(observed)
		mid := len(observed) / 2
		if len(observed)%2 == 1 {
			m.Medians[j] = observed[mid]
		} else {
			m.Medians[j] = (observed[mid-1] + observed[mid]) / 2
		}
	}
	return nil
}

// TransformRow replaces missing cells in a single row, returning a copy.
func (m *MedianImputer) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if math.IsNaN(v) && j < len(m.Medians) {
			out[j] = m.Medians[j]
		} else {
			out[j] = v
		}
	}
	return out
}

// Transform applies TransformRow to every row.
func (m *MedianImputer) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = m.TransformRow(row)
	}
	return out
}
