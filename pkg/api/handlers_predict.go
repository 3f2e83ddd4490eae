package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/herdsense/prenhez-api/pkg/bundle"
	"github.com/herdsense/prenhez-api/pkg/inference"
	"github.com/herdsense/prenhez-api/pkg/models"
)

const unknownCowID = "unknown"

// handleHealth reports service status, whether a model is loaded, and the
// feature contract the model expects.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	features := []string{}
	metadata := bundle.Metadata{}
	if s.svc != nil {
		features = s.svc.Features()
		metadata = s.svc.Metadata()
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":             "online",
		"model_loaded":       s.svc != nil,
		"features_esperadas": features,
		"model_metadata":     metadata,
	})
}

// handleFeatures returns the required feature list and model metadata.
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	features := []string{}
	metadata := bundle.Metadata{}
	if s.svc != nil {
		features = s.svc.Features()
		metadata = s.svc.Metadata()
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"features":       features,
		"model_metadata": metadata,
	})
}

// handlePredict runs one inference and persists the analysis. Persisting is a
// hard requirement: when the store write fails the request fails, with a
// message that distinguishes the storage failure from a prediction failure.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "Dados JSON necessários")
		return
	}

	if s.svc == nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Modelo não carregado")
		return
	}

	result, sanitized, err := s.svc.Predict(input)
	if err != nil {
		s.writePredictError(w, err)
		return
	}

	cowID := unknownCowID
	if v, ok := input["cow_id"].(string); ok && v != "" {
		cowID = v
	}

	record := &models.AnalysisRecord{
		CowID:           cowID,
		Prediction:      result.Prediction,
		PredictionLabel: result.Label,
		Probability:     result.Confidence,
		Payload:         sanitized,
	}
	analysisID, err := s.store.Save(record)
	if err != nil {
		log.Printf("prediction succeeded but analysis persistence failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao salvar análise")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"prenhez":            result.Label,
		"prediction":         result.Prediction,
		"confidence":         result.Confidence,
		"confidence_percent": result.ConfidencePercent,
		"status":             "success",
		"analysis_id":        analysisID,
		"analysis":           record,
	})
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	var missingErr *inference.MissingFeaturesError
	if errors.As(err, &missingErr) {
		writeJSONResponse(w, http.StatusBadRequest, map[string]any{
			"error":    "Features faltando",
			"missing":  missingErr.Missing,
			"required": missingErr.Required,
		})
		return
	}

	var valueErr *inference.BadValueError
	if errors.As(err, &valueErr) {
		writeJSONResponse(w, http.StatusBadRequest, map[string]any{
			"error":   "Valor de feature inválido",
			"feature": valueErr.Feature,
		})
		return
	}

	if errors.Is(err, inference.ErrModelUnavailable) {
		writeErrorResponse(w, http.StatusInternalServerError, "Modelo não carregado")
		return
	}

	log.Printf("prediction failed: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "Erro na predição")
}
