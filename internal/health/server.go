// Package health exposes a lightweight HTTP health endpoint for container probes.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tg_job_hunter_bot/internal/logging"
)

const (
	dbPingTimeout      = 2 * time.Second
	readHeaderTimeout  = 2 * time.Second
	healthListenPrefix = ":"
)

// DBChecker defines the subset of database behavior required for health.
type DBChecker interface {
	Ping(ctx context.Context) error
}

// StatsProvider supplies row counts for the health payload.
type StatsProvider interface {
	CountUsers(ctx context.Context) (int64, error)
	CountVacancies(ctx context.Context) (int64, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// Server hosts the health endpoint and owns the underlying HTTP server.
type Server struct {
	server    *http.Server
	logger    *logrus.Entry
	dbChecker DBChecker
	stats     StatsProvider
}

type response struct {
	Status    string `json:"status"`
	Database  string `json:"database,omitempty"`
	Users     int64  `json:"users"`
	Vacancies int64  `json:"vacancies"`
	Documents int64  `json:"documents"`
}

// NewServer constructs a health server that exposes GET /healthz on the provided port.
func NewServer(port int, dbChecker DBChecker, stats StatsProvider, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logging.Logger()
	}

	srv := &Server{
		logger:    logger,
		dbChecker: dbChecker,
		stats:     stats,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf("%s%d", healthListenPrefix, port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return srv
}

// ListenAndServe starts the health server and blocks until shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.WithFields(logging.Fields{
		"event": "health_listen",
		"addr":  s.server.Addr,
	}).Info("starting health server")

	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.logger.WithField("event", "health_stopped").Info("health server stopped")
			return nil
		}

		return fmt.Errorf("health server listen: %w", err)
	}

	s.logger.WithField("event", "health_stopped").Info("health server stopped")
	return nil
}

// Shutdown gracefully stops the health server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := response{Status: "ok"}
	dbStatus := "ok"

	ctx := r.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if s.dbChecker == nil {
		dbStatus = "error"
		s.logger.WithField("event", "health_db_missing").Warn("database checker is not configured for health endpoint")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		err := s.dbChecker.Ping(pingCtx)
		cancel()

		if err != nil {
			dbStatus = "error"
			s.logger.WithFields(logging.Fields{
				"event": "health_db_error",
			}).WithError(err).Warn("database ping failed during health check")
		}
	}

	if dbStatus != "ok" {
		resp.Status = "degraded"
		resp.Database = "error"
	} else if s.stats != nil {
		s.fillStats(ctx, &resp)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.WithField("event", "health_write_error").WithError(err).Error("failed to encode health response")
	}
}

func (s *Server) fillStats(ctx context.Context, resp *response) {
	var err error
	if resp.Users, err = s.stats.CountUsers(ctx); err != nil {
		s.logger.WithField("event", "health_stats_error").WithError(err).Warn("failed to count users")
		return
	}
	if resp.Vacancies, err = s.stats.CountVacancies(ctx); err != nil {
		s.logger.WithField("event", "health_stats_error").WithError(err).Warn("failed to count vacancies")
		return
	}
	if resp.Documents, err = s.stats.CountDocuments(ctx); err != nil {
		s.logger.WithField("event", "health_stats_error").WithError(err).Warn("failed to count documents")
	}
}
