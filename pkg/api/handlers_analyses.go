package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/herdsense/prenhez-api/pkg/analysisstore"
	"github.com/herdsense/prenhez-api/pkg/models"
)

// handleListAnalyses returns persisted analyses, newest first, with optional
// cow_id/status filters and pagination.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	filter := models.AnalysisFilter{
		CowID:  r.URL.Query().Get("cow_id"),
		Status: r.URL.Query().Get("status"),
		Limit:  parseIntParam(r, "limit", models.DefaultAnalysisLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	records, err := s.store.List(filter)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao listar análises")
		return
	}

	filter.Normalize()
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"analyses": records,
		"count":    len(records),
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// handleGetAnalysis returns one analysis by ID.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, analysisstore.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Análise não encontrada")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao buscar análise")
		return
	}
	writeJSONResponse(w, http.StatusOK, record)
}

// handleUpdateAnalysis applies a partial correction to a persisted analysis.
func (s *Server) handleUpdateAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update models.AnalysisUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Dados JSON necessários")
		return
	}
	if err := update.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.Update(id, &update)
	if err != nil {
		if errors.Is(err, analysisstore.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Análise não encontrada")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao atualizar análise")
		return
	}
	writeJSONResponse(w, http.StatusOK, record)
}

// handleDeleteAnalysis removes one analysis.
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, analysisstore.ErrNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "Análise não encontrada")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao remover análise")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message": "deleted",
		"id":      id,
	})
}

// handleDeleteAllAnalyses wipes the analysis history.
func (s *Server) handleDeleteAllAnalyses(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteAll()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Falha ao remover análises")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// parseIntParam extracts a non-negative integer query parameter, returning
// the default when absent or invalid.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
