package inference

import (
	"errors"
	"math"
	"testing"

	"github.com/herdsense/prenhez-api/pkg/bundle"
	"github.com/herdsense/prenhez-api/pkg/models"
)

// stubPredictor returns canned results so tests can exercise the service
// without training a forest.
type stubPredictor struct {
	prediction int
	proba      float64
	probaErr   error
	lastRow    []float64
}

func (s *stubPredictor) Predict(row []float64) (int, error) {
	s.lastRow = append([]float64(nil), row...)
	return s.prediction, nil
}

func (s *stubPredictor) Proba(row []float64) (float64, error) {
	if s.probaErr != nil {
		return 0, s.probaErr
	}
	return s.proba, nil
}

func newStubService(p Predictor, features []string) *Service {
	return &Service{
		predictor: p,
		features:  features,
		metadata:  bundle.Metadata{ModelType: "random_forest"},
	}
}

func TestNewRejectsNilBundle(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable, got %v", err)
	}
	if _, err := New(&bundle.Bundle{}); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable for empty bundle, got %v", err)
	}
}

func TestPredictPositive(t *testing.T) {
	stub := &stubPredictor{prediction: 1, proba: 0.87}
	svc := newStubService(stub, []string{"age", "milk_production"})

	result, sanitized, err := svc.Predict(map[string]any{
		"age":             4.0,
		"milk_production": 55.0,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if result.Prediction != 1 || result.Label != models.LabelPregnant {
		t.Errorf("Expected positive SIM result, got %+v", result)
	}
	if result.Confidence != 0.87 {
		t.Errorf("Confidence = %v, want 0.87", result.Confidence)
	}
	if result.ConfidencePercent != 87.0 {
		t.Errorf("ConfidencePercent = %v, want 87", result.ConfidencePercent)
	}
	if sanitized["age"] != 4.0 || sanitized["milk_production"] != 55.0 {
		t.Errorf("Unexpected sanitized values: %v", sanitized)
	}
	// Vector assembled in feature order.
	if stub.lastRow[0] != 4.0 || stub.lastRow[1] != 55.0 {
		t.Errorf("Row not in feature order: %v", stub.lastRow)
	}
}

func TestPredictNegativeLabel(t *testing.T) {
	svc := newStubService(&stubPredictor{prediction: 0, proba: 0.12}, []string{"age"})

	result, _, err := svc.Predict(map[string]any{"age": 1})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if result.Prediction != 0 || result.Label != models.LabelNotPregnant {
		t.Errorf("Expected negative NÃO result, got %+v", result)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("Confidence out of range: %v", result.Confidence)
	}
}

func TestPredictMissingFeatures(t *testing.T) {
	svc := newStubService(&stubPredictor{}, []string{"age", "weight", "body_condition"})

	_, _, err := svc.Predict(map[string]any{"weight": 120.0})

	var missingErr *MissingFeaturesError
	if !errors.As(err, &missingErr) {
		t.Fatalf("Expected MissingFeaturesError, got %v", err)
	}
	if len(missingErr.Missing) != 2 {
		t.Fatalf("Expected 2 missing features, got %v", missingErr.Missing)
	}
	if missingErr.Missing[0] != "age" || missingErr.Missing[1] != "body_condition" {
		t.Errorf("Unexpected missing list: %v", missingErr.Missing)
	}
	if len(missingErr.Required) != 3 {
		t.Errorf("Required list should carry all features: %v", missingErr.Required)
	}
}

func TestPredictBadValue(t *testing.T) {
	svc := newStubService(&stubPredictor{}, []string{"age"})

	_, _, err := svc.Predict(map[string]any{"age": []string{"nope"}})

	var badErr *BadValueError
	if !errors.As(err, &badErr) {
		t.Fatalf("Expected BadValueError, got %v", err)
	}
	if badErr.Feature != "age" {
		t.Errorf("Feature = %s, want age", badErr.Feature)
	}
}

func TestPredictCoercesNumericStrings(t *testing.T) {
	stub := &stubPredictor{prediction: 1, proba: 0.75}
	svc := newStubService(stub, []string{"age", "weight"})

	_, sanitized, err := svc.Predict(map[string]any{
		"age":    "3.5",
		"weight": 120,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if sanitized["age"] != 3.5 {
		t.Errorf("String value not coerced: %v", sanitized["age"])
	}
	if sanitized["weight"] != 120.0 {
		t.Errorf("Int value not coerced: %v", sanitized["weight"])
	}
}

func TestPredictNeutralConfidenceOnProbaFailure(t *testing.T) {
	stub := &stubPredictor{prediction: 1, probaErr: errors.New("no calibration")}
	svc := newStubService(stub, []string{"age"})

	result, _, err := svc.Predict(map[string]any{"age": 2.0})
	if err != nil {
		t.Fatalf("Predict should degrade, not fail: %v", err)
	}
	if result.Confidence != 0.5 {
		t.Errorf("Expected neutral 0.5 confidence, got %v", result.Confidence)
	}
	if result.Prediction != 1 {
		t.Errorf("Prediction should survive probability failure, got %d", result.Prediction)
	}
}

func TestNilServiceIsUnavailable(t *testing.T) {
	var svc *Service
	if _, _, err := svc.Predict(map[string]any{"age": 1.0}); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable, got %v", err)
	}
}

func TestFeaturesReturnsCopy(t *testing.T) {
	svc := newStubService(&stubPredictor{}, []string{"age", "weight"})

	got := svc.Features()
	got[0] = "tampered"
	if svc.Features()[0] != "age" {
		t.Error("Features should return a defensive copy")
	}
}

func TestRoundPercentTwoDecimals(t *testing.T) {
	result := models.NewPredictionResult(1, 0.87654)
	if math.Abs(result.ConfidencePercent-87.65) > 1e-9 {
		t.Errorf("ConfidencePercent = %v, want 87.65", result.ConfidencePercent)
	}
}
