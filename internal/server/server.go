// Package server exposes conversion and extraction over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/extract"
)

// Converter renders an in-memory DOCX document as PDF
type Converter interface {
	ConvertBytes(ctx context.Context, docx []byte) ([]byte, error)
}

// Processor extracts a CV record from a document on disk
type Processor interface {
	Process(ctx context.Context, path string) (*extract.Result, error)
}

// Config holds HTTP server settings
type Config struct {
	Addr             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	GracefulShutdown time.Duration
	MaxUploadBytes   int64
	// WorkDir receives uploaded files while they are processed
	WorkDir string
}

// Server serves the conversion API
type Server struct {
	cfg       Config
	converter Converter
	processor Processor
	logger    *domain.Logger
}

// New creates a server. processor may be nil, in which case /v1/extract
// answers 503.
func New(cfg Config, converter Converter, processor Processor) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	return &Server{
		cfg:       cfg,
		converter: converter,
		processor: processor,
		logger:    domain.DefaultLogger.WithPrefix("server"),
	}
}

// Handler returns the router with all routes configured
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.convert)
		r.Post("/extract", s.extract)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening on %s", s.cfg.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
	}

	timeout := s.cfg.GracefulShutdown
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Graceful shutdown failed: %v", err)
		if err := srv.Close(); err != nil {
			s.logger.Error("Forced shutdown failed: %v", err)
		}
		return err
	}

	s.logger.Info("Server stopped")
	return nil
}
