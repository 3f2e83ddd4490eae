package features

import (
	"testing"

	"github.com/herdsense/prenhez-api/pkg/dataset"
)

func buildDataset(t *testing.T, cols map[string][]float64, rows int) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(rows)
	for name, values := range cols {
		if err := ds.AddColumn(name, values); err != nil {
			t.Fatalf("Failed to add column %s: %v", name, err)
		}
	}
	return ds
}

func TestReconcileFullMapping(t *testing.T) {
	ds := buildDataset(t, map[string][]float64{
		"lactation_number": {1, 2},
		"avgtotalmotion":   {180, 120},
		"parity":           {1, 3},
		"avgrumination":    {30, 55},
		"dayhour":          {5, 70},
		"avgactivity":      {95, 65},
		"avghoursstanding": {10, 6},
	}, 2)

	matrix, err := Reconcile(ds, DefaultMapping)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	expected := []string{
		"age", "weight", "previous_pregnancies", "body_condition",
		"days_since_insemination", "milk_production", "body_temperature",
	}
	if len(matrix.Features) != len(expected) {
		t.Fatalf("Expected %d features, got %d", len(expected), len(matrix.Features))
	}
	for i, name := range expected {
		if matrix.Features[i] != name {
			t.Errorf("Feature %d = %s, want %s", i, matrix.Features[i], name)
		}
	}

	// Values copied verbatim in mapping order.
	want := []float64{1, 180, 1, 30, 5, 95, 10}
	for j, v := range want {
		if matrix.Rows[0][j] != v {
			t.Errorf("Row 0 col %d = %v, want %v", j, matrix.Rows[0][j], v)
		}
	}
}

func TestReconcileOmitsAbsentColumns(t *testing.T) {
	ds := buildDataset(t, map[string][]float64{
		"parity":      {1, 2, 3},
		"avgactivity": {90, 70, 60},
	}, 3)

	matrix, err := Reconcile(ds, DefaultMapping)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// Only the realized subset, still in declared order.
	if len(matrix.Features) != 2 {
		t.Fatalf("Expected 2 realized features, got %v", matrix.Features)
	}
	if matrix.Features[0] != "previous_pregnancies" || matrix.Features[1] != "milk_production" {
		t.Errorf("Unexpected realized features: %v", matrix.Features)
	}
	if matrix.Rows[1][0] != 2 || matrix.Rows[1][1] != 70 {
		t.Errorf("Unexpected row values: %v", matrix.Rows[1])
	}
}

func TestReconcileEmptyIsError(t *testing.T) {
	ds := buildDataset(t, map[string][]float64{
		"unrelated": {1, 2},
	}, 2)

	if _, err := Reconcile(ds, DefaultMapping); err == nil {
		t.Error("Expected error when no mapped columns are present")
	}
}
