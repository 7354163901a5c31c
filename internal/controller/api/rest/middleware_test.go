package rest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// mockLogger is a test logger that captures log messages
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func newMockLogger() *mockLogger {
	return &mockLogger{
		messages: make([]string, 0),
	}
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.log("DEBUG", msg, args...)
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.log("INFO", msg, args...)
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.log("WARN", msg, args...)
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.log("ERROR", msg, args...)
}

func (m *mockLogger) Fatal(msg string, args ...any) {
	m.log("FATAL", msg, args...)
}

func (m *mockLogger) log(level, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	formatted := fmt.Sprintf("[%s] %s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		formatted += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	m.messages = append(m.messages, formatted)
}

func (m *mockLogger) getOutput() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Join(m.messages, "\n")
}

func TestLoggingMiddleware(t *testing.T) {
	logger := newMockLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	output := logger.getOutput()
	for _, want := range []string{"[INFO] HTTP request", "method=POST", "path=/api/jobs", "status=201", "bytes=7"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log to contain %q, got %s", want, output)
		}
	}
}

func TestLoggingMiddleware_HealthAtDebug(t *testing.T) {
	logger := newMockLogger()
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !strings.HasPrefix(logger.getOutput(), "[DEBUG]") {
		t.Errorf("Expected health probe logged at debug, got %s", logger.getOutput())
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := newMockLogger()
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON error body, got %q", ct)
	}
	if !strings.Contains(logger.getOutput(), "error=boom") {
		t.Errorf("Expected panic to be logged, got %s", logger.getOutput())
	}
}

func TestBodyLimitMiddleware(t *testing.T) {
	handler := BodyLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected oversized body to be refused, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Errorf("Expected small body to pass, got %d", w.Code)
	}
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := ChainMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("Unexpected order %v", order)
	}
}
