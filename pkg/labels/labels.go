// Package labels derives a binary pregnancy label from raw herd signals when
// the dataset carries no ground truth. Each heuristic is an independent rule;
// any rule firing marks the animal pregnant. The OR combination deliberately
// favors recall over precision: it is better to flag every plausible pregnancy
// than to miss one.
package labels

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/herdsense/prenhez-api/pkg/dataset"
)

// Raw columns consumed by the synthesis rules.
const (
	colCalved           = "calved"
	colDaysPrior        = "daysprior"
	colPredictedCalving = "predictedcalving"
	colActivity         = "avgactivity"
	colRumination       = "avgrumination"
)

const (
	activityQuantile   = 0.30
	ruminationQuantile = 0.70
	fallbackQuantile   = 0.20
)

// Rule is one labeling heuristic. Apply returns a per-row flag vector and
// whether the rule's signals were available at all; an unavailable rule
// contributes nothing to the fold.
type Rule struct {
	Name  string
	Apply func(ds *dataset.Dataset) ([]bool, bool)
}

// Rules returns the synthesis heuristics in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "calving", Apply: calvingRule},
		{Name: "predicted_calving", Apply: predictedCalvingRule},
		{Name: "behavior", Apply: behavioralRule},
	}
}

// Synthesize produces a 0/1 label per dataset row. When none of the primary
// rules has its signals, a fallback flags the animals whose days-prior value
// sits in the lowest quintile (most imminent predicted calving). With no
// usable signal at all, synthesis fails rather than emit an all-zero target.
func Synthesize(ds *dataset.Dataset) ([]float64, error) {
	y := make([]float64, ds.Rows())
	applied := false

	for _, rule := range Rules() {
		flags, ok := rule.Apply(ds)
		if !ok {
			continue
		}
		applied = true
		for i, f := range flags {
			if f {
				y[i] = 1
			}
		}
	}

	if applied {
		return y, nil
	}

	flags, ok := fallbackRule(ds)
	if !ok {
		return nil, fmt.Errorf("no label signals available in dataset")
	}
	for i, f := range flags {
		if f {
			y[i] = 1
		}
	}
	return y, nil
}

// calvingRule flags animals that calved before their predicted date: a
// recorded calving with a negative days-prior value implies an already
// progressed pregnancy.
func calvingRule(ds *dataset.Dataset) ([]bool, bool) {
	calved, ok1 := ds.Column(colCalved)
	daysPrior, ok2 := ds.Column(colDaysPrior)
	if !ok1 || !ok2 {
		return nil, false
	}
	flags := make([]bool, ds.Rows())
	for i := range flags {
		flags[i] = calved[i] == 1 && daysPrior[i] < 0
	}
	return flags, true
}

// predictedCalvingRule flags animals with a future predicted calving date;
// the monitoring system only predicts calvings for animals it considers
// pregnant.
func predictedCalvingRule(ds *dataset.Dataset) ([]bool, bool) {
	predicted, ok := ds.Column(colPredictedCalving)
	if !ok {
		return nil, false
	}
	flags := make([]bool, ds.Rows())
	for i := range flags {
		flags[i] = predicted[i] > 0
	}
	return flags, true
}

// behavioralRule flags low movement combined with high rumination, a
// physiological proxy for late pregnancy: activity below its 30th percentile
// and rumination above its 70th.
func behavioralRule(ds *dataset.Dataset) ([]bool, bool) {
	activity, ok1 := ds.Column(colActivity)
	rumination, ok2 := ds.Column(colRumination)
	if !ok1 || !ok2 {
		return nil, false
	}
	actThreshold, ok1 := quantile(activity, activityQuantile)
	rumThreshold, ok2 := quantile(rumination, ruminationQuantile)
	if !ok1 || !ok2 {
		return nil, false
	}
	flags := make([]bool, ds.Rows())
	for i := range flags {
		flags[i] = activity[i] < actThreshold && rumination[i] > rumThreshold
	}
	return flags, true
}

// fallbackRule flags the lowest quintile of days-prior values, the animals
// closest to a predicted calving.
func fallbackRule(ds *dataset.Dataset) ([]bool, bool) {
	daysPrior, ok := ds.Column(colDaysPrior)
	if !ok {
		return nil, false
	}
	threshold, ok := quantile(daysPrior, fallbackQuantile)
	if !ok {
		return nil, false
	}
	flags := make([]bool, ds.Rows())
	for i := range flags {
		flags[i] = daysPrior[i] < threshold
	}
	return flags, true
}

// quantile computes the empirical p-quantile over the non-missing values.
func quantile(values []float64, p float64) (float64, bool) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, false
	}
	sort.Float64s(clean)
	return stat.Quantile(p, stat.Empirical, clean, nil), true
}
