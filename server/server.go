package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"comment-insights/analyzer"
	"comment-insights/internal/models"
	"comment-insights/shared/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the analysis pipeline over HTTP. The web layer stays
// thin: parse the URL, run the pipeline, encode the result.
type Server struct {
	analyzer *analyzer.Analyzer
	monitor  *monitoring.Monitor
	router   chi.Router
}

func New(a *analyzer.Analyzer, monitor *monitoring.Monitor) *Server {
	s := &Server{
		analyzer: a,
		monitor:  monitor,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/analyze", s.handleAnalyze)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)

	s.router = r
	return s
}

func (s *Server) Router() http.Handler { return s.router }

// analyzeRequest is the JSON body alternative to the form field.
type analyzeRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	url := requestURL(r)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Missing youtube_url parameter."})
		return
	}

	result, reqErr := s.analyzer.Analyze(r.Context(), url)
	if reqErr != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:      reqErr.Message,
			VideoTitle: reqErr.VideoTitle,
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// requestURL accepts the video URL either as a form field (the original
// page posts a form) or as a JSON body.
func requestURL(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ""
		}
		return req.YouTubeURL
	}
	return r.FormValue("youtube_url")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", s.monitor.GetStatusSummary())
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", s.monitor.GetStatusSummary())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "%s", s.monitor.GetStatusSummary())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}
