package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/cineco-calendar/internal/calendar"
	"github.com/pfrederiksen/cineco-calendar/internal/logger"
	"github.com/pfrederiksen/cineco-calendar/internal/scraper"
	"github.com/pfrederiksen/cineco-calendar/internal/show"
)

const (
	unreachableMessage = "Error while accessing cinegestion"
	shutdownTimeout    = 10 * time.Second
)

// Server builds calendar feeds from the Cinegestion listing
type Server struct {
	fetcher   scraper.Fetcher
	extractor *scraper.Extractor
}

// New creates a Server reading the listing through fetcher.
func New(fetcher scraper.Fetcher, extractor *scraper.Extractor) *Server {
	return &Server{
		fetcher:   fetcher,
		extractor: extractor,
	}
}

// Shows fetches the listing and returns the volunteer shows of venue.
func (s *Server) Shows(ctx context.Context, venue string) ([]show.Show, error) {
	html, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading listing: %w", err)
	}
	return s.extractor.Extract(html, venue), nil
}

// Generate builds the calendar of venue as seen by viewer.
func (s *Server) Generate(ctx context.Context, venue, viewer string) (*calendar.Calendar, error) {
	shows, err := s.Shows(ctx, venue)
	if err != nil {
		return nil, err
	}

	cal := calendar.Synthesize(shows, viewer)
	cal.Name = "Cineco - " + venue

	logger.Debug("Calendar generated", logger.Fields{
		"venue":  venue,
		"viewer": viewer,
		"shows":  len(shows),
	})
	return cal, nil
}

// Routes returns the HTTP handler of the service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", health)
	r.Get("/metrics", metrics)
	r.Get("/{venue}/{viewer}", s.calendar)

	return r
}

// ListenAndServe serves Routes on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // covers the Cinegestion round trips
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// calendar handles GET /{venue}/{viewer}
func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	venue := pathParam(r, "venue")
	viewer := pathParam(r, "viewer")
	logger.IncrCounter("requests.calendar")

	cal, err := s.Generate(r.Context(), venue, viewer)
	if err != nil {
		fields := logger.Fields{
			"venue":      venue,
			"request_id": chimiddleware.GetReqID(r.Context()),
		}
		if errors.Is(err, scraper.ErrUnreachable) {
			logger.IncrCounter("requests.unreachable")
			logger.Error(unreachableMessage, fields, err)
			writeError(w, http.StatusUnprocessableEntity, unreachableMessage)
			return
		}
		logger.Error("Calendar generation failed", fields, err)
		writeError(w, http.StatusInternalServerError, "failed to generate calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := cal.WriteTo(w); err != nil {
		logger.Warn("Writing calendar response failed", logger.Fields{"error": err.Error()})
	}
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

// pathParam returns a decoded route parameter. chi matches on r.URL.RawPath
// when it is set, in which case the parameter is still escaped; otherwise it
// comes from the already decoded r.URL.Path.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// ErrorResponse is the body of every non-calendar error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// accessLog logs one line per request with its status and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(started)
		logger.RecordTiming("http.duration", elapsed)
		logger.Info("HTTP request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": elapsed.Milliseconds(),
			"request_id":  chimiddleware.GetReqID(r.Context()),
		})
	})
}
