package features

import (
	"fmt"

	"github.com/herdsense/prenhez-api/pkg/dataset"
)

// Mapping ties one public feature name to the raw sensor column that backs it.
// The public names are interface labels consumed by the serving contract, not
// biologically literal measurements.
type Mapping struct {
	Public string
	Raw    string
}

// DefaultMapping is the declared candidate table. The realized feature list of
// a trained bundle is the subset of this table whose raw columns were actually
// present in the training data, in this order.
var DefaultMapping = []Mapping{
	{Public: "age", Raw: "lactation_number"},
	{Public: "weight", Raw: "avgtotalmotion"},
	{Public: "previous_pregnancies", Raw: "parity"},
	{Public: "body_condition", Raw: "avgrumination"},
	{Public: "days_since_insemination", Raw: "dayhour"},
	{Public: "milk_production", Raw: "avgactivity"},
	{Public: "body_temperature", Raw: "avghoursstanding"},
}

// Matrix is a reconciled feature matrix: rows of values in the order of the
// realized feature list.
type Matrix struct {
	Features []string
	Rows     [][]float64
}

// Reconcile restricts a raw dataset to the mapped columns that exist, copying
// values verbatim. Mapped features whose raw column is absent are silently
// omitted; an empty result is an error because no model can be trained on it.
func Reconcile(ds *dataset.Dataset, mapping []Mapping) (*Matrix, error) {
	realized := make([]string, 0, len(mapping))
	columns := make([][]float64, 0, len(mapping))

	for _, m := range mapping {
		col, ok := ds.Column(m.Raw)
		if !ok {
			continue
		}
		realized = append(realized, m.Public)
		columns = append(columns, col)
	}

	if len(realized) == 0 {
		return nil, fmt.Errorf("no mapped feature columns present in dataset")
	}

	rows := make([][]float64, ds.Rows())
	for i := range rows {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		rows[i] = row
	}

	return &Matrix{Features: realized, Rows: rows}, nil
}
