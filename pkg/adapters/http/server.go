package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/contour"
	"github.com/aretw0/contour/pkg/domain"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/aretw0/contour/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Checker defines the interface for the named-schema checker.
type Checker interface {
	Register(ctx context.Context, name string, s schema.Schema) error
	Lookup(ctx context.Context, name string) (schema.Schema, error)
	Check(ctx context.Context, name string, value any) (bool, error)
	Explain(ctx context.Context, name string, value any) error
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

var _ Checker = (*contour.Checker)(nil)

// Server exposes a Checker as a JSON API.
type Server struct {
	Checker  Checker
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Schema schema.Schema   `json:"schema"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// ValidateResponse is returned by the validation endpoints.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewHandler creates a new HTTP handler for the checker.
func NewHandler(checker Checker, opts ...Option) http.Handler {
	s := &Server{
		Checker: checker,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Post("/validate", s.ValidateInline)
	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", s.ListSchemas)
		r.Get("/{name}", s.GetSchema)
		r.Put("/{name}", s.PutSchema)
		r.Delete("/{name}", s.DeleteSchema)
		r.Post("/{name}/validate", s.ValidateNamed)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(contour.Version),
	})
}

// ListSchemas handles the GET /schemas request.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.Checker.List(r.Context())
	if err != nil {
		s.writeError(w, "ListSchemas", err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetSchema handles the GET /schemas/{name} request.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	sc, err := s.Checker.Lookup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetSchema", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sc)
}

// PutSchema handles the PUT /schemas/{name} request.
func (s *Server) PutSchema(w http.ResponseWriter, r *http.Request) {
	var sc schema.Schema
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutSchema: Invalid request body", "error", err)
		return
	}

	if err := s.Checker.Register(r.Context(), chi.URLParam(r, "name"), sc); err != nil {
		s.writeError(w, "PutSchema", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSchema handles the DELETE /schemas/{name} request.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	if err := s.Checker.Remove(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, "DeleteSchema", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateNamed handles the POST /schemas/{name}/validate request.
// The body is the candidate value. With ?explain=true the first failure is reported.
func (s *Server) ValidateNamed(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	value, err := decodeValue(body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("ValidateNamed: Invalid request body", "error", err)
		return
	}

	name := chi.URLParam(r, "name")
	if r.URL.Query().Get("explain") == "true" {
		failure := s.Checker.Explain(r.Context(), name, value)
		var ve *validator.ValidationError
		switch {
		case failure == nil:
			s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
		case errors.As(failure, &ve):
			s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Error: ve.Error()})
		default:
			s.writeError(w, "ValidateNamed", failure)
		}
		return
	}

	ok, err := s.Checker.Check(r.Context(), name, value)
	if err != nil {
		s.writeError(w, "ValidateNamed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: ok})
}

// ValidateInline handles the POST /validate request.
func (s *Server) ValidateInline(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("ValidateInline: Invalid request body", "error", err)
		return
	}
	value, err := decodeValue(body.Value)
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}

	ok, err := validator.ValidateBySchema(body.Schema, value)
	if err != nil {
		s.writeError(w, "ValidateInline", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: ok})
}

// decodeValue decodes a JSON candidate keeping numbers as json.Number.
// An empty body is the absent value.
func decodeValue(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSchemaNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSchemaName):
		return http.StatusBadRequest
	case validator.IsDefinitionError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(fmt.Sprintf("response encode failed (%d)", status), "error", err)
	}
}
