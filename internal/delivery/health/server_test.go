package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func ok(context.Context) error { return nil }

func TestHealthz(t *testing.T) {
	s := NewServer(":0", CheckFunc(ok), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	down := CheckFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name    string
		store   Checker
		backend Checker
		code    int
		status  string
	}{
		{"all up", CheckFunc(ok), CheckFunc(ok), http.StatusOK, "ok"},
		{"backend down", CheckFunc(ok), down, http.StatusServiceUnavailable, "unavailable"},
		{"store down", down, CheckFunc(ok), http.StatusServiceUnavailable, "unavailable"},
		{"no backend", CheckFunc(ok), nil, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(":0", tt.store, tt.backend, zap.NewNop())

			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.code {
				t.Fatalf("status code: want=%d got=%d", tt.code, rec.Code)
			}

			var body status
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.status {
				t.Fatalf("status: want=%q got=%q", tt.status, body.Status)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
}
