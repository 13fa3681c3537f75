// Package httpapi serves form descriptors over HTTP.
//
//	GET  /models          list known model names
//	GET  /forms/{model}   create form (query: endpoint, method, locale, title, successUrl)
//	POST /forms/{model}   edit form for the JSON object in the body
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formdescriptor/pkg/formgen"
	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

// MaxBodyBytes bounds the instance payload accepted by POST /forms/{model}.
const MaxBodyBytes = 1 << 20

// Server exposes a generator and its models.
type Server struct {
	models    schema.ModelSource
	generator *formgen.Generator
	logger    zerolog.Logger
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New constructs a Server.
func New(models schema.ModelSource, generator *formgen.Generator, opts ...Option) *Server {
	s := &Server{
		models:    models,
		generator: generator,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/models", s.listModels)
	r.Get("/forms/{model}", s.createForm)
	r.Post("/forms/{model}", s.editForm)
	return r
}

func (s *Server) listModels(w http.ResponseWriter, _ *http.Request) {
	names := s.models.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": names})
}

func (s *Server) createForm(w http.ResponseWriter, r *http.Request) {
	s.generate(w, r, nil)
}

func (s *Server) editForm(w http.ResponseWriter, r *http.Request) {
	instance, err := decodeInstance(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	s.generate(w, r, instance)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, instance map[string]any) {
	name := chi.URLParam(r, "model")
	model, err := s.models.Model(name)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownModel) {
			writeError(w, http.StatusNotFound, "UNKNOWN_MODEL", "unknown model "+name)
			return
		}
		s.logger.Error().Err(err).Str("model", name).Msg("model lookup failed")
		writeError(w, http.StatusInternalServerError, "MODEL_ERROR", "model could not be loaded")
		return
	}

	query := r.URL.Query()
	req := formgen.Request{
		Model:      model,
		Endpoint:   query.Get("endpoint"),
		Method:     query.Get("method"),
		Locale:     requestLocale(r),
		Title:      query.Get("title"),
		SuccessURL: query.Get("successUrl"),
		Multipart:  query.Get("multipart") == "true",
	}
	if instance != nil {
		req.Instance = instance
	}

	form, err := s.generator.Generate(r.Context(), req)
	switch {
	case errors.Is(err, formgen.ErrEndpointRequired):
		writeError(w, http.StatusBadRequest, "ENDPOINT_REQUIRED", "query parameter endpoint is required")
		return
	case err != nil:
		s.logger.Error().Err(err).Str("model", name).Msg("generate form")
		writeError(w, http.StatusInternalServerError, "GENERATE_FAILED", "form could not be generated")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// requestLocale prefers the locale query parameter over Accept-Language. The
// zero tag lets the generator apply its default.
func requestLocale(r *http.Request) language.Tag {
	if raw := strings.TrimSpace(r.URL.Query().Get("locale")); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			return tag
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			return tags[0]
		}
	}
	return language.Und
}

func decodeInstance(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", MaxBodyBytes)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var instance map[string]any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if instance == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return instance, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
