package main

import (
	"flag"
	"log"
	"time"

	"github.com/herdsense/prenhez-api/pkg/bundle"
	"github.com/herdsense/prenhez-api/pkg/dataset"
	"github.com/herdsense/prenhez-api/pkg/features"
	"github.com/herdsense/prenhez-api/pkg/inference"
	"github.com/herdsense/prenhez-api/pkg/labels"
	"github.com/herdsense/prenhez-api/pkg/models"
	"github.com/herdsense/prenhez-api/pkg/pipeline"
)

func main() {
	dataPath := flag.String("data", "", "raw herd-monitoring CSV; when empty a balanced synthetic herd is generated")
	outPath := flag.String("out", "models/pregnancy_pipeline.gob", "output path for the model bundle")
	samples := flag.Int("samples", 1000, "synthetic herd size when no CSV is given")
	testFraction := flag.Float64("test-frac", 0.3, "held-out fraction for evaluation")
	seed := flag.Int64("seed", 42, "random seed for data generation, split and training")
	flag.Parse()

	var ds *dataset.Dataset
	var err error
	if *dataPath != "" {
		log.Printf("Loading dataset from %s", *dataPath)
		ds, err = dataset.LoadCSV(*dataPath)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
	} else {
		log.Printf("No dataset given, generating balanced synthetic herd (%d samples)", *samples)
		ds = dataset.GenerateBalanced(*samples, *seed)
	}
	log.Printf("Dataset: %d rows, columns %v", ds.Rows(), ds.Columns())

	matrix, err := features.Reconcile(ds, features.DefaultMapping)
	if err != nil {
		log.Fatalf("Feature reconciliation failed: %v", err)
	}
	log.Printf("Realized features: %v", matrix.Features)

	y, err := targetLabels(ds)
	if err != nil {
		log.Fatalf("Label construction failed: %v", err)
	}
	nPos := 0
	for _, label := range y {
		if label == 1 {
			nPos++
		}
	}
	nNeg := len(y) - nPos
	log.Printf("Class distribution: NÃO=%d SIM=%d", nNeg, nPos)

	split, err := pipeline.StratifiedSplit(matrix.Rows, y, *testFraction, *seed)
	if err != nil {
		log.Fatalf("Split failed: %v", err)
	}
	log.Printf("Train: %d samples, test: %d samples", len(split.TrainX), len(split.TestX))

	cfg := pipeline.DefaultForestConfig()
	cfg.Seed = *seed
	p := pipeline.New(cfg)
	log.Printf("Training random forest (%d trees, depth %d)...", cfg.NumTrees, cfg.MaxDepth)
	if err := p.Fit(split.TrainX, split.TrainY); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	predictions, err := p.PredictAll(split.TestX)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	metrics := pipeline.Evaluate(split.TestY, predictions)
	log.Printf("Accuracy:  %.3f", metrics.Accuracy)
	log.Printf("Precision: %.3f", metrics.Precision)
	log.Printf("Recall:    %.3f", metrics.Recall)
	log.Printf("F1 score:  %.3f", metrics.F1Score)
	log.Printf("Confusion: TN=%d FP=%d / FN=%d TP=%d",
		metrics.Confusion[0][0], metrics.Confusion[0][1],
		metrics.Confusion[1][0], metrics.Confusion[1][1])

	b := &bundle.Bundle{
		Pipeline: p,
		Features: matrix.Features,
		Metadata: bundle.Metadata{
			ModelType:    "random_forest",
			NumFeatures:  len(matrix.Features),
			TrainingDate: time.Now().UTC(),
			Accuracy:     metrics.Accuracy,
			NumSamples:   len(y),
			ClassDistribution: map[string]int{
				"nao_prenhes": nNeg,
				"prenhes":     nPos,
			},
		},
	}
	if err := bundle.Save(*outPath, b); err != nil {
		log.Fatalf("Failed to save bundle: %v", err)
	}
	log.Printf("Model bundle saved to %s", *outPath)

	smokeCheck(*outPath)
}

// targetLabels prefers a direct pregnancy indicator when the dataset carries
// one; otherwise the heuristic synthesis engine derives it.
func targetLabels(ds *dataset.Dataset) ([]float64, error) {
	if direct, ok := ds.Column(dataset.LabelColumn); ok {
		log.Printf("Using direct %s column as target", dataset.LabelColumn)
		y := make([]float64, len(direct))
		for i, v := range direct {
			if v == 1 {
				y[i] = 1
			}
		}
		return y, nil
	}
	log.Printf("No direct label column, synthesizing labels from raw signals")
	return labels.Synthesize(ds)
}

// smokeCheck reloads the saved bundle and classifies two reference animals:
// a young, highly active cow expected NÃO and an older, calm, high-rumination
// cow expected SIM.
func smokeCheck(path string) {
	svc, err := inference.Load(path)
	if err != nil {
		log.Fatalf("Reload check failed: %v", err)
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
			log.Fatalf("Smoke check %q failed: %v", c.name, err)
		}
		if result.Label != c.want {
			log.Fatalf("Smoke check %q: predicted %s, want %s", c.name, result.Label, c.want)
		}
		log.Printf("Smoke check %q: %s (confidence %.2f%%)",
			c.name, result.Label, result.ConfidencePercent)
	}
}
