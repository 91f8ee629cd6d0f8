// Package server exposes the simulator and the run store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/config"
	"github.com/san-kum/golfsim/internal/experiment"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/logging"
	"github.com/san-kum/golfsim/internal/storage"
	"github.com/san-kum/golfsim/internal/telemetry"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20
	// MaxSteps caps the step budget a request may ask for.
	MaxSteps = flight.DefaultMaxSteps
)

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Server struct {
	store     *storage.Store
	collector *telemetry.Collector
	logger    *zap.Logger
	router    *mux.Router
}

// New wires the routes. store may be nil, in which case runs are simulated
// but never saved and the /runs endpoints answer 404.
func New(store *storage.Store, collector *telemetry.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:     store,
		collector: collector,
		logger:    logger,
		router:    mux.NewRouter(),
	}

	s.router.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	s.router.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	s.router.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet)
	s.router.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	s.router.HandleFunc("/runs/{id}/trajectory", s.handleGetTrajectory).Methods(http.MethodGet)
	if collector != nil {
		s.router.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// LaunchRequest overrides individual launch fields of the chosen preset.
type LaunchRequest struct {
	Speed     *float64 `json:"initial_speed,omitempty"`
	Angle     *float64 `json:"launch_angle,omitempty"`
	Spin      *float64 `json:"initial_spin_rate,omitempty"`
	SpinDecay *float64 `json:"spin_decay_rate,omitempty"`
}

type SimulateRequest struct {
	Label    string        `json:"label,omitempty"`
	Preset   string        `json:"preset,omitempty"`
	Launch   LaunchRequest `json:"launch"`
	MaxSteps int           `json:"max_steps,omitempty"`
	Trace    bool          `json:"trace,omitempty"`
}

type SimulateResponse struct {
	ID         string             `json:"id,omitempty"`
	Landed     bool               `json:"landed"`
	Steps      int                `json:"steps"`
	Carry      float64            `json:"carry"`
	Metrics    map[string]float64 `json:"metrics"`
	Trajectory flight.Trajectory  `json:"trajectory"`
	Error      string             `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// buildConfig resolves a request into a configuration.
func buildConfig(req SimulateRequest) (*config.Config, string, error) {
	label := req.Label
	cfg := config.DefaultConfig()
	if req.Preset != "" {
		cfg = config.GetPreset(req.Preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q", req.Preset)
		}
		if label == "" {
			label = req.Preset
		}
	}
	if label == "" {
		label = "api"
	}
	if !labelPattern.MatchString(label) {
		return nil, "", fmt.Errorf("label %q must match %s", label, labelPattern)
	}

	if req.Launch.Speed != nil {
		cfg.Launch.Speed = *req.Launch.Speed
	}
	if req.Launch.Angle != nil {
		cfg.Launch.Angle = *req.Launch.Angle
	}
	if req.Launch.Spin != nil {
		cfg.Launch.Spin = *req.Launch.Spin
	}
	if req.Launch.SpinDecay != nil {
		cfg.Launch.SpinDecay = *req.Launch.SpinDecay
	}
	if req.MaxSteps > MaxSteps {
		return nil, "", &aero.ConfigError{Field: "max_steps", Reason: fmt.Sprintf("must not exceed %d, got %d", MaxSteps, req.MaxSteps)}
	}
	if req.MaxSteps != 0 {
		cfg.MaxSteps = req.MaxSteps
	}
	return cfg, label, nil
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	cfg, label, err := buildConfig(req)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	log := s.logger.With(zap.String("label", label))
	var observers []flight.Observer
	if req.Trace {
		observers = append(observers, logging.NewStepObserver(log))
	}

	exp := experiment.New(cfg)
	if s.collector != nil {
		exp.WithRecorder(s.collector)
	}
	if err := exp.Setup(observers...); err != nil {
		writeConfigError(w, err)
		return
	}

	res, runErr := exp.Run(r.Context())
	switch {
	case runErr == nil, errors.Is(runErr, flight.ErrDidNotLand):
	case errors.Is(runErr, aero.ErrInvalidConfig):
		writeConfigError(w, runErr)
		return
	case errors.Is(runErr, flight.ErrInvalidState):
		log.Warn("flight diverged", zap.Error(runErr))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: runErr.Error()})
		return
	default:
		log.Error("simulation failed", zap.Error(runErr))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: runErr.Error()})
		return
	}

	resp := SimulateResponse{
		Landed:     res.Landed,
		Steps:      res.Steps(),
		Carry:      res.Carry(),
		Metrics:    res.Metrics,
		Trajectory: res.Trajectory,
	}
	if runErr != nil {
		resp.Error = runErr.Error()
	}

	if s.store != nil {
		id, err := s.store.Save(label, cfg, res)
		if err != nil {
			log.Error("save run", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "save run failed"})
			return
		}
		resp.ID = id
	}

	log.Info("flight simulated",
		zap.String("id", resp.ID),
		zap.Bool("landed", resp.Landed),
		zap.Int("steps", resp.Steps),
		zap.Float64("carry", resp.Carry),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, config.Presets)
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run store disabled"})
		return
	}
	runs, err := s.store.List()
	if err != nil {
		s.logger.Error("list runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "list runs failed"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	meta, ok := s.loadRun(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleGetTrajectory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	meta, ok := s.loadRun(w, id)
	if !ok {
		return
	}
	tr, err := s.store.LoadTrajectory(id)
	if err != nil {
		s.logger.Error("load trajectory", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "load trajectory failed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := storage.ExportJSON(w, meta, tr); err != nil {
		s.logger.Error("encode trajectory", zap.Error(err))
	}
}

func (s *Server) loadRun(w http.ResponseWriter, id string) (*storage.RunMetadata, bool) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run store disabled"})
		return nil, false
	}
	meta, err := s.store.Load(id)
	switch {
	case err == nil:
		return meta, true
	case errors.Is(err, storage.ErrInvalidRunID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, fs.ErrNotExist):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("run %s not found", id)})
	default:
		s.logger.Error("load run", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "load run failed"})
	}
	return nil, false
}

func writeConfigError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var ce *aero.ConfigError
	if errors.As(err, &ce) {
		resp.Field = ce.Field
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
