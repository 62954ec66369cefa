// Package server exposes flight plan repair over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/config"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/pipeline"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/plan"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/repair"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

// maxBody caps the size of a repair request.
const maxBody = 4 << 20

// Server is the repair API server.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	log      *slog.Logger
	started  time.Time
}

// New creates a server running repairs through p.
func New(cfg *config.Config, p *pipeline.Pipeline, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{cfg: cfg, pipeline: p, log: log, started: time.Now()}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/repair", s.handleRepair)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.instrument(mux)
}

// Start serves on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("flightfix server starting", "addr", "http://localhost"+srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("flightfix server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
		s.log.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// RepairRequest is the body of POST /api/repair. Coordinates are
// [lat, lon] pairs.
type RepairRequest struct {
	Name      string            `json:"name,omitempty"`
	Geofence  [][2]float64      `json:"geofence"`
	Waypoints [][2]float64      `json:"waypoints"`
	Margins   *boundary.Margins `json:"margins,omitempty"`
}

// RepairResponse is the body of a successful repair.
type RepairResponse struct {
	ID         string             `json:"id"`
	Mission    *mission.Document  `json:"mission"`
	Repaired   [][2]float64       `json:"repaired"`
	Legs       []repair.Leg       `json:"legs"`
	Validation *validation.Report `json:"validation"`
	CacheHit   bool               `json:"cache_hit"`
}

type errorResponse struct {
	Error      string             `json:"error"`
	Validation *validation.Report `json:"validation,omitempty"`
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req RepairRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decoding request: %v", err)})
		return
	}

	in := &plan.Input{
		Name:      req.Name,
		Geofence:  geo.FromPairs(req.Geofence),
		Waypoints: geo.FromPairs(req.Waypoints),
		Margins:   req.Margins,
	}
	if in.Margins != nil {
		if err := in.Margins.Validate(); err != nil {
			repairsTotal.WithLabelValues("rejected").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
	}

	out, err := s.pipeline.Run(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		repairsTotal.WithLabelValues(outcomeFor(status)).Inc()
		resp := errorResponse{Error: err.Error()}
		var ie *pipeline.InputError
		if errors.As(err, &ie) {
			resp.Validation = ie.Report
		}
		if status == http.StatusInternalServerError {
			s.log.Error("repair failed", "error", err)
		}
		writeJSON(w, status, resp)
		return
	}

	repairsTotal.WithLabelValues("ok").Inc()
	detoursTotal.Add(float64(out.Result.Detours()))
	snappedTotal.Add(float64(out.Result.Snapped()))
	if out.CacheHit {
		cacheLookups.WithLabelValues("hit").Inc()
	} else {
		cacheLookups.WithLabelValues("miss").Inc()
	}

	writeJSON(w, http.StatusOK, RepairResponse{
		ID:         out.ID,
		Mission:    out.Document,
		Repaired:   geo.Pairs(out.Result.Plan),
		Legs:       out.Result.Legs,
		Validation: out.Validation,
		CacheHit:   out.CacheHit,
	})
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	var (
		ie *pipeline.InputError
		ge *boundary.GeometryError
		pe *boundary.ProjectionError
		se *mission.SerializationError
	)
	switch {
	case errors.As(err, &ie), errors.As(err, &ge), errors.As(err, &pe), errors.As(err, &se):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func outcomeFor(status int) string {
	if status == http.StatusUnprocessableEntity {
		return "rejected"
	}
	return "error"
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"cached_rings":   s.pipeline.Cache.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
