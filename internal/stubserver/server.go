// Package stubserver is a local stand-in for the analysis service. It answers
// the same endpoints with fixture data so the client can be exercised offline.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Sla0ui/phishguard/internal/logging"
	"github.com/Sla0ui/phishguard/internal/models"
)

const maxRequestBytes = 1 << 20

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// Server serves fixture verdicts over the analysis API
type Server struct {
	fixture *Fixture
	router  chi.Router
	logger  *logging.Logger
}

// New creates a stub server for fixture. A nil fixture uses DefaultFixture.
func New(fixture *Fixture, logger *logging.Logger) *Server {
	if fixture == nil {
		fixture = DefaultFixture()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		fixture: fixture,
		router:  chi.NewRouter(),
		logger:  logger.With(logging.F("component", "stub")),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/education/{attackType}", s.handleEducation)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr and serves in the background. It returns a shutdown
// function and the base URL, e.g. http://127.0.0.1:5001.
func (s *Server) Start(addr string) (func(context.Context) error, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("stub server stopped", logging.F("error", err))
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	s.logger.Info("stub server listening", logging.F("url", baseURL))
	return srv.Shutdown, baseURL, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", ww.Status()),
			logging.F("request_id", r.Header.Get("X-Request-ID")),
			logging.F("elapsed", time.Since(start).Round(time.Microsecond)))
	})
}

type analyzeBody struct {
	RawInput     *string `json:"raw_input"`
	PlatformHint string  `json:"platform_hint"`
	Enrichment   struct {
		ExtractedURL *string `json:"extracted_url"`
	} `json:"enrichment"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var body analyzeBody
	if err := json.Unmarshal(data, &body); err != nil || body.RawInput == nil {
		writeError(w, http.StatusBadRequest, "No raw_input provided")
		return
	}

	if s.fixture.Delay > 0 {
		select {
		case <-time.After(s.fixture.Delay):
		case <-r.Context().Done():
			return
		}
	}

	verdict := make(map[string]any, len(s.fixture.Verdict)+2)
	for k, v := range s.fixture.Verdict {
		verdict[k] = v
	}

	found := urlPattern.FindAllString(*body.RawInput, -1)
	switch {
	case body.Enrichment.ExtractedURL != nil && *body.Enrichment.ExtractedURL != "":
		verdict["extracted_url"] = *body.Enrichment.ExtractedURL
	case len(found) > 0:
		verdict["extracted_url"] = strings.TrimRight(found[0], ".,;:!?)")
	}
	if len(found) > 1 {
		verdict["multiple_urls"] = true
	}

	writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{
		Service:   "PhishGuard API (stub)",
		Status:    "running",
		AIEnabled: false,
		AIService: "Disabled",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.fixture.Version,
	})
}

func (s *Server) handleEducation(w http.ResponseWriter, r *http.Request) {
	attackType := strings.ToUpper(chi.URLParam(r, "attackType"))

	content, err := json.Marshal(s.fixture.education(attackType))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get education content")
		return
	}

	writeJSON(w, http.StatusOK, models.EducationResponse{
		AttackType: attackType,
		Education:  content,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
