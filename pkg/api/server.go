// Package api exposes the prediction and analysis endpoints over HTTP.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/herdsense/prenhez-api/pkg/analysisstore"
	"github.com/herdsense/prenhez-api/pkg/inference"
)

// Server provides the HTTP API. The inference service may be nil when the
// model artifact failed to load; in that state /predict reports the model as
// unavailable and /health reflects it, until a restart with a valid artifact.
type Server struct {
	svc        *inference.Service
	store      *analysisstore.Store
	port       string
	corsOrigin string
	router     *mux.Router
}

// NewServer creates a new API server and registers its routes.
func NewServer(svc *inference.Service, store *analysisstore.Store, port, corsOrigin string) *Server {
	s := &Server{
		svc:        svc,
		store:      store,
		port:       port,
		corsOrigin: corsOrigin,
		router:     mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.recoveryMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/features", s.handleFeatures).Methods(http.MethodGet)
	s.router.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)

	s.router.HandleFunc("/analyses", s.handleListAnalyses).Methods(http.MethodGet)
	s.router.HandleFunc("/analyses", s.handleDeleteAllAnalyses).Methods(http.MethodDelete)
	s.router.HandleFunc("/analyses/{id}", s.handleGetAnalysis).Methods(http.MethodGet)
	s.router.HandleFunc("/analyses/{id}", s.handleUpdateAnalysis).Methods(http.MethodPatch)
	s.router.HandleFunc("/analyses/{id}", s.handleDeleteAnalysis).Methods(http.MethodDelete)

	// Preflight requests must match a route for the CORS middleware to run.
	s.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})
}

// Handler returns the configured router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.port)
	log.Printf("Starting API server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
