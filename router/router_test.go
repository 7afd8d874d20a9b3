// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/chainvote/db"
	"github.com/danielhkuo/chainvote/testutil"
)

func newTestRouter(t *testing.T, names ...string) (http.Handler, *testutil.FakeElection) {
	t.Helper()

	fake := testutil.NewFakeElection(names...)
	journal := db.NewJournal(testutil.SetupTestDB(t))
	return NewRouter(fake, journal, testutil.GetTestConfig()), fake
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != Banner {
		t.Errorf("Expected body '%s', got '%s'", Banner, w.Body.String())
	}
}

func TestUnknownPath(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/polls/abc", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t, "Alice")

	// 400 and 401 are valid here; only 404/405 mean the route is missing
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/candidates"},
		{"GET", "/winner"},
		{"GET", "/results/data"},
		{"GET", "/has-voted"},
		{"POST", "/vote"},
		{"POST", "/election/admin/add_candidate"},
		{"POST", "/election/register"},
		{"POST", "/election/vote"},
		{"GET", "/election/admin/transactions"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"GET", "/vote"},
		{"POST", "/candidates"},
		{"DELETE", "/election/admin/transactions"},
		{"PUT", "/election/register"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	mux, _ := newTestRouter(t, "Alice")

	req := httptest.NewRequest("GET", "/candidates", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID on logged routes")
	}
}

func TestCORSPreflight(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/vote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected preflight 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected Access-Control-Allow-Origin on preflight")
	}
}
