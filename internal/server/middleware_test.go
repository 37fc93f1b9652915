package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/dart-portal/internal/common"
)

func newTestServer() *Server {
	return &Server{logger: common.NewSilentLogger()}
}

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func TestCorrelationIDMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"request id", map[string]string{"X-Request-ID": "req-1"}, "req-1"},
		{"correlation id", map[string]string{"X-Correlation-ID": "corr-1"}, "corr-1"},
		{"request id wins", map[string]string{"X-Request-ID": "req-2", "X-Correlation-ID": "corr-2"}, "req-2"},
		{"generated", nil, ""},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := s.correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = r.Context().Value(correlationIDKey).(string)
			}))

			req := httptest.NewRequest("GET", "/api/companies/search?keyword=abc", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			got := w.Header().Get("X-Correlation-ID")
			if got == "" || got != seen {
				t.Fatalf("expected header and context to carry the same id, got %q and %q", got, seen)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCORSMiddleware_AllowsMCPHeaders(t *testing.T) {
	s := newTestServer()
	handler := s.corsMiddleware(okHandler(http.StatusOK))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", nil))

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected origin *, got %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("expected POST in allowed methods, got %q", w.Header().Get("Access-Control-Allow-Methods"))
	}
	allowed := w.Header().Get("Access-Control-Allow-Headers")
	for _, h := range []string{"Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"} {
		if !strings.Contains(allowed, h) {
			t.Errorf("expected %s in allowed headers, got %q", h, allowed)
		}
	}
}

func TestCORSMiddleware_AnswersPreflight(t *testing.T) {
	s := newTestServer()
	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the handler")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/ai-financial-analysis", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for preflight, got %d", w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer()

	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("ratio table corrupted")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/financial-analysis", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if body["status"] != "error" || body["message"] == "" {
		t.Errorf("expected error envelope, got %v", body)
	}

	w = httptest.NewRecorder()
	s.recoveryMiddleware(okHandler(http.StatusNoContent)).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected pass-through status 204, got %d", w.Code)
	}
}

func TestLoggingMiddleware_KeepsStatusAndBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		s := newTestServer()
		handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"status":"success"}`))
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

		if w.Code != status {
			t.Errorf("expected status %d, got %d", status, w.Code)
		}
		if w.Body.String() != `{"status":"success"}` {
			t.Errorf("expected body to pass through, got %q", w.Body.String())
		}
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	n, err := rw.Write([]byte("조원"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rw.bytesWritten != n || n != len("조원") {
		t.Errorf("expected %d bytes counted, got %d", len("조원"), rw.bytesWritten)
	}

	rw.WriteHeader(http.StatusAccepted)
	if rw.statusCode != http.StatusAccepted {
		t.Errorf("expected captured status 202, got %d", rw.statusCode)
	}

	// The streamable MCP transport needs Flush to reach the real writer.
	var _ http.Flusher = rw
	rw.Flush()
	if !rec.Flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	s := newTestServer()
	handler := s.securityHeadersMiddleware(okHandler(http.StatusTeapot))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/company", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", w.Code)
	}

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("expected %s=%s, got %s", header, value, got)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	for _, directive := range []string{"default-src 'self'", "img-src 'self' data:"} {
		if !strings.Contains(csp, directive) {
			t.Errorf("expected CSP to contain %q, got %q", directive, csp)
		}
	}
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		wantErr bool
	}{
		{"small narrative body", "POST", `{"companyName":"삼성전자"}`, false},
		{"oversized body", "POST", strings.Repeat("x", 100), true},
		{"no body", "GET", "", false},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			var got string
			handler := s.maxBodySizeMiddleware(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, err := io.ReadAll(r.Body)
				got, readErr = string(b), err
			}))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, "/api/ai-financial-analysis", body))

			if tt.wantErr {
				if readErr == nil {
					t.Error("expected error reading oversized body")
				}
				return
			}
			if readErr != nil {
				t.Fatalf("unexpected read error: %v", readErr)
			}
			if got != tt.body {
				t.Errorf("expected body %q, got %q", tt.body, got)
			}
		})
	}
}
