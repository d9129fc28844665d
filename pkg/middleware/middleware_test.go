package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/travelmate/pkg/logger"
	mw "github.com/diagnosis/travelmate/pkg/middleware"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *mockStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type mockLimiter struct {
	hits map[string]int
	err  error
}

func (m *mockLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.hits[key]++
	return m.hits[key] <= limit, nil
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen interface{}
	h := mw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(logger.RequestIDKey)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" || seen != rec.Header().Get("X-Request-ID") {
		t.Fatalf("expected generated id in header and context, header=%q ctx=%v", rec.Header().Get("X-Request-ID"), seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("expected caller id to be kept, got %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestIdempotency_ReplaysFirstResponse(t *testing.T) {
	store := &mockStore{data: map[string]string{}}
	calls := 0

	r := chi.NewRouter()
	r.Use(mw.Idempotency(store, time.Hour, func(*http.Request) string { return "user-1" }))
	r.Post("/book", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"n":%d}`, calls)
	})
	server := httptest.NewServer(r)
	defer server.Close()

	post := func(key string) (int, string) {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/book", strings.NewReader("{}"))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	status1, body1 := post("k1")
	status2, body2 := post("k1")
	if status1 != http.StatusCreated || status2 != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", status1, status2)
	}
	if body1 != body2 || calls != 1 {
		t.Fatalf("expected replay, calls=%d bodies %q %q", calls, body1, body2)
	}

	post("k2")
	post("")
	if calls != 3 {
		t.Fatalf("expected new key and missing key to reach handler, calls=%d", calls)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := &mockLimiter{hits: map[string]int{}}
	h := mw.RateLimit(limiter, "login", 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
	if limiter.hits["login:10.0.0.1"] != 3 {
		t.Fatalf("expected key by first forwarded ip, got %v", limiter.hits)
	}

	limiter.err = errors.New("redis down")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected fail-open on limiter error, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := mw.Health(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestLogging_RecoversPanic(t *testing.T) {
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("router should keep serving, got %d", rec.Code)
	}
}
