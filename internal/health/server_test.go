package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type stubDBChecker struct {
	err error
}

func (s stubDBChecker) Ping(context.Context) error {
	return s.err
}

type stubStats struct {
	users, vacancies, documents int64
	err                         error
}

func (s stubStats) CountUsers(context.Context) (int64, error)     { return s.users, s.err }
func (s stubStats) CountVacancies(context.Context) (int64, error) { return s.vacancies, s.err }
func (s stubStats) CountDocuments(context.Context) (int64, error) { return s.documents, s.err }

func newTestServer(db DBChecker, stats StatsProvider) *Server {
	logger, _ := logtest.NewNullLogger()
	return NewServer(0, db, stats, logrus.NewEntry(logger))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()

	var resp response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return resp
}

func TestHealthHandlerOK(t *testing.T) {
	srv := newTestServer(stubDBChecker{}, stubStats{users: 3, vacancies: 12, documents: 5})

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Status != "ok" {
		t.Fatalf("expected ok status, got %q", resp.Status)
	}
	if resp.Users != 3 || resp.Vacancies != 12 || resp.Documents != 5 {
		t.Fatalf("unexpected counts %+v", resp)
	}
}

func TestHealthHandlerDegradedOnPingFailure(t *testing.T) {
	srv := newTestServer(stubDBChecker{err: errors.New("down")}, stubStats{})

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	resp := decodeResponse(t, rec)
	if resp.Status != "degraded" || resp.Database != "error" {
		t.Fatalf("expected degraded response, got %+v", resp)
	}
}

func TestHealthHandlerDegradedWithoutChecker(t *testing.T) {
	srv := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	resp := decodeResponse(t, rec)
	if resp.Status != "degraded" {
		t.Fatalf("expected degraded response, got %+v", resp)
	}
}

func TestHealthHandlerStatsFailureStillOK(t *testing.T) {
	srv := newTestServer(stubDBChecker{}, stubStats{err: errors.New("count failed")})

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	resp := decodeResponse(t, rec)
	if resp.Status != "ok" {
		t.Fatalf("expected ok status despite stats failure, got %+v", resp)
	}
}

func TestShutdownNilSafe(t *testing.T) {
	var srv *Server
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil-safe shutdown, got %v", err)
	}
}
