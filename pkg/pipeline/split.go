package pipeline

import (
	"fmt"
	"math/rand"
)

// Split holds a stratified train/test partition.
type Split struct {
	TrainX [][]float64
	TrainY []float64
	TestX  [][]float64
	TestY  []float64
}

// StratifiedSplit partitions rows into train and test sets while preserving
// the class ratio, so held-out evaluation is not biased by the split.
func StratifiedSplit(X [][]float64, y []float64, testFraction float64, seed int64) (*Split, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("feature rows (%d) and labels (%d) differ", len(X), len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be in (0,1), got %g", testFraction)
	}

	byClass := make(map[float64][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	split := &Split{}
	for _, indices := range byClass {
		rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})
		nTest := int(float64(len(indices)) * testFraction)
		for k, i := range indices {
			if k < nTest {
				split.TestX = append(split.TestX, X[i])
				split.TestY = append(split.TestY, y[i])
			} else {
				split.TrainX = append(split.TrainX, X[i])
				split.TrainY = append(split.TrainY, y[i])
			}
		}
	}

	if len(split.TrainX) == 0 || len(split.TestX) == 0 {
		return nil, fmt.Errorf("split produced an empty partition (%d train, %d test)",
			len(split.TrainX), len(split.TestX))
	}
	return split, nil
}
