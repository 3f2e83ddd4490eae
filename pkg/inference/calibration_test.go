package inference

import (
	"testing"

	"github.com/herdsense/prenhez-api/pkg/bundle"
	"github.com/herdsense/prenhez-api/pkg/dataset"
	"github.com/herdsense/prenhez-api/pkg/features"
	"github.com/herdsense/prenhez-api/pkg/models"
	"github.com/herdsense/prenhez-api/pkg/pipeline"
)

// TestCalibrationOnSyntheticHerd trains the full default pipeline on the
// generated herd and checks the two reference animals the trainer also uses:
// a young, highly active cow must come out NÃO and an older, calm,
// high-rumination cow must come out SIM.
func TestCalibrationOnSyntheticHerd(t *testing.T) {
	ds := dataset.GenerateBalanced(1000, 42)

	matrix, err := features.Reconcile(ds, features.DefaultMapping)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	y, ok := ds.Column(dataset.LabelColumn)
	if !ok {
		t.Fatalf("Generated herd misses the %s column", dataset.LabelColumn)
	}

	split, err := pipeline.StratifiedSplit(matrix.Rows, y, 0.3, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit failed: %v", err)
	}

	p := pipeline.New(pipeline.DefaultForestConfig())
	if err := p.Fit(split.TrainX, split.TrainY); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	svc, err := New(&bundle.Bundle{
		Pipeline: p,
		Features: matrix.Features,
		Metadata: bundle.Metadata{ModelType: "random_forest", NumFeatures: len(matrix.Features)},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		name  string
		want  string
		input map[string]any
	}{
		{
			name: "young active cow",
			want: models.LabelNotPregnant,
			input: map[string]any{
				"age": 1.0, "weight": 190.0, "previous_pregnancies": 1.0,
				"body_condition": 25.0, "days_since_insemination": 5.0,
				"milk_production": 100.0, "body_temperature": 11.0,
			},
		},
		{
			name: "experienced calm cow",
			want: models.LabelPregnant,
			input: map[string]any{
				"age": 4.0, "weight": 110.0, "previous_pregnancies": 3.0,
				"body_condition": 60.0, "days_since_insemination": 70.0,
				"milk_production": 50.0, "body_temperature": 5.5,
			},
		},
	}
	for _, c := range cases {
		result, _, err := svc.Predict(c.input)
		if err != nil {
			t.Fatalf("Predict %q failed: %v", c.name, err)
		}
		if result.Label != c.want {
			t.Errorf("%s: predicted %s, want %s", c.name, result.Label, c.want)
		}
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("%s: confidence out of range: %v", c.name, result.Confidence)
		}
	}
}
