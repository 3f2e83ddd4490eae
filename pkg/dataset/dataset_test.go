package dataset

import (
	"math"
	"strings"
	"testing"
)

func TestReadCSVDropsIrrelevantColumns(t *testing.T) {
	csv := "cow,TIME,breed,avgactivity\n" +
		"c1,2023-01-01,holstein,95.5\n" +
		"c2,2023-01-02,jersey,60.0\n"

	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if ds.Rows() != 2 {
		t.Errorf("Expected 2 rows, got %d", ds.Rows())
	}
	for _, dropped := range []string{"cow", "TIME", "breed"} {
		if ds.HasColumn(dropped) {
			t.Errorf("Column %s should have been dropped", dropped)
		}
	}

	activity, ok := ds.Column("avgactivity")
	if !ok {
		t.Fatal("avgactivity column missing")
	}
	if activity[0] != 95.5 || activity[1] != 60.0 {
		t.Errorf("Unexpected activity values: %v", activity)
	}
}

func TestReadCSVParityMapping(t *testing.T) {
	csv := "parity\nprimiparous\nMultiparous\nnulliparous\n2\nbogus\n"

	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	parity, ok := ds.Column("parity")
	if !ok {
		t.Fatal("parity column missing")
	}
	expected := []float64{1, 2, 0, 2, 2} // bogus filled with mode (2)
	for i, want := range expected {
		if parity[i] != want {
			t.Errorf("parity[%d] = %v, want %v", i, parity[i], want)
		}
	}
}

func TestReadCSVUnparseableCellsBecomeNaN(t *testing.T) {
	csv := "avgrumination\n55.2\nnot-a-number\n\n40\n"

	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	col, _ := ds.Column("avgrumination")
	if col[0] != 55.2 || col[3] != 40 {
		t.Errorf("Unexpected parsed values: %v", col)
	}
	if !math.IsNaN(col[1]) || !math.IsNaN(col[2]) {
		t.Errorf("Expected NaN for unparseable cells, got %v", col)
	}
}

func TestGenerateBalanced(t *testing.T) {
	ds := GenerateBalanced(200, 42)

	if ds.Rows() != 200 {
		t.Fatalf("Expected 200 rows, got %d", ds.Rows())
	}
	for _, name := range []string{
		"lactation_number", "avgtotalmotion", "parity", "avgrumination",
		"dayhour", "avgactivity", "avghoursstanding", LabelColumn,
	} {
		if !ds.HasColumn(name) {
			t.Errorf("Missing column %s", name)
		}
	}

	labels, _ := ds.Column(LabelColumn)
	positives := 0
	for _, v := range labels {
		if v == 1 {
			positives++
		}
	}
	if positives != 100 {
		t.Errorf("Expected balanced classes, got %d positives of 200", positives)
	}
}

func TestAddColumnLengthMismatch(t *testing.T) {
	ds := New(3)
	if err := ds.AddColumn("short", []float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched column length")
	}
	if err := ds.AddColumn("ok", []float64{1, 2, 3}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ds.AddColumn("ok", []float64{4, 5, 6}); err == nil {
		t.Error("Expected error for duplicate column")
	}
}
