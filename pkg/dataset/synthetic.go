package dataset

import (
	"fmt"
	"math/rand"
)

// LabelColumn is the direct pregnancy indicator carried by generated datasets.
const LabelColumn = "is_pregnant"

// GenerateBalanced produces a labeled herd dataset with an even class split
// and clearly separated behavioral profiles: open cows are young, highly
// active and spend long hours standing; pregnant cows are older, ruminate
// more and move less. Used by the trainer when no CSV is supplied.
func GenerateBalanced(samples int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	nNeg := samples / 2
	nPos := samples - nNeg

	cols := map[string][]float64{
		"lactation_number": make([]float64, samples),
		"avgtotalmotion":   make([]float64, samples),
		"parity":           make([]float64, samples),
		"avgrumination":    make([]float64, samples),
		"dayhour":          make([]float64, samples),
		"avgactivity":      make([]float64, samples),
		"avghoursstanding": make([]float64, samples),
		LabelColumn:        make([]float64, samples),
	}

	for i := 0; i < nNeg; i++ {
		cols["lactation_number"][i] = float64(1 + rng.Intn(2))
		cols["avgtotalmotion"][i] = 180 + rng.NormFloat64()*20
		cols["parity"][i] = 1
		cols["avgrumination"][i] = 30 + rng.NormFloat64()*5
		cols["dayhour"][i] = float64(1 + rng.Intn(19))
		cols["avgactivity"][i] = 95 + rng.NormFloat64()*10
		cols["avghoursstanding"][i] = 10 + rng.NormFloat64()
		cols[LabelColumn][i] = 0
	}
	for i := nNeg; i < nNeg+nPos; i++ {
		cols["lactation_number"][i] = float64(3 + rng.Intn(2))
		cols["avgtotalmotion"][i] = 120 + rng.NormFloat64()*15
		cols["parity"][i] = float64(2 + rng.Intn(2))
		cols["avgrumination"][i] = 55 + rng.NormFloat64()*5
		cols["dayhour"][i] = float64(40 + rng.Intn(50))
		cols["avgactivity"][i] = 65 + rng.NormFloat64()*10
		cols["avghoursstanding"][i] = 6 + rng.NormFloat64()
		cols[LabelColumn][i] = 1
	}

	// Shuffle rows so the split does not see class blocks.
	perm := rng.Perm(samples)
	order := []string{
		"lactation_number", "avgtotalmotion", "parity", "avgrumination",
		"dayhour", "avgactivity", "avghoursstanding", LabelColumn,
	}
	ds := New(samples)
	for _, name := range order {
		src := cols[name]
		shuffled := make([]float64, samples)
		for i, p := range perm {
			shuffled[i] = src[p]
		}
		if err := ds.AddColumn(name, shuffled); err != nil {
			panic(fmt.Sprintf("generated column %s rejected: %v", name, err))
		}
	}
	return ds
}
