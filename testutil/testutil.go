// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/db"
)

// Checksummed addresses used across tests
const (
	TestContractAddress = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	TestVoterAddress    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	TestOtherVoter      = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	TestAdminKey        = "test-admin-key"
)

// SetupTestDB opens a fresh in-memory journal database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		Backend:         "ethereum",
		ContractAddress: TestContractAddress,
		CallTimeout:     2 * time.Second,
		TxTimeout:       5 * time.Second,
		ReadRetries:     0,
		ReconnectAfter:  3,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.TypeSQLite,
		AdminKey:        TestAdminKey,
		AllowedOrigins:  []string{"*"},
	}
}

// AdminHeaders returns the headers an admin request needs
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": TestAdminKey}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		case []byte:
			raw = b
		default:
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// LogBuffer collects log output from concurrent handlers
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Count returns how many log lines contain substr
func (b *LogBuffer) Count(substr string) int {
	n := 0
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// CaptureLogs routes the default slog logger into a buffer for the rest of
// the test. Tests using it must not run in parallel.
func CaptureLogs(t *testing.T) *LogBuffer {
	t.Helper()

	buf := &LogBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return buf
}
