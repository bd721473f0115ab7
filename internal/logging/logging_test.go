package logging

import (
	"bytes"
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger

	return buf.String()
}

// captureLogOutputWithInit captures output by reinitializing the logger
// to write to a buffer. This tests the actual InitLogger ReplaceAttr logic.
func captureLogOutputWithInit(level Level, format Format, f func()) string {
	// InitLogger writes to stderr; capture it through a pipe
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	outCh := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		outCh <- buf.String()
	}()

	InitLogger(level, format)

	f()

	w.Close()
	os.Stderr = oldStderr

	output := <-outCh

	// Reinitialize with default settings
	InitLogger(LevelWarn, FormatText)

	return output
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{
			name:   "Debug level JSON format",
			level:  LevelDebug,
			format: FormatJSON,
		},
		{
			name:   "Info level JSON format",
			level:  LevelInfo,
			format: FormatJSON,
		},
		{
			name:   "Warn level JSON format",
			level:  LevelWarn,
			format: FormatJSON,
		},
		{
			name:   "Error level JSON format",
			level:  LevelError,
			format: FormatJSON,
		},
		{
			name:   "Info level Text format",
			level:  LevelInfo,
			format: FormatText,
		},
		{
			name:   "Default level (invalid value)",
			level:  Level(999),
			format: FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			logger := GetLogger()
			if logger == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id-123"

	newCtx := WithRequestID(ctx, requestID)

	retrievedID := GetRequestID(newCtx)
	if retrievedID != requestID {
		t.Errorf("Expected request ID %s, got %s", requestID, retrievedID)
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "Context with request ID",
			ctx:      context.WithValue(context.Background(), RequestIDKey, "test-id"),
			expected: "test-id",
		},
		{
			name:     "Context without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "Context with wrong type value",
			ctx:      context.WithValue(context.Background(), RequestIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetRequestID(tt.ctx)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)

	tests := []struct {
		name string
		fn   func()
	}{
		{
			name: "Debug",
			fn: func() {
				Debug("debug message", "key", "value")
			},
		},
		{
			name: "Info",
			fn: func() {
				Info("info message", "key", "value")
			},
		},
		{
			name: "Warn",
			fn: func() {
				Warn("warning message", "key", "value")
			},
		},
		{
			name: "Error",
			fn: func() {
				Error("error message", "key", "value")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if output == "" {
				t.Error("Expected log output, got empty string")
			}
		})
	}
}

func TestContextLoggingFunctions(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)
	ctx := WithRequestID(context.Background(), "test-request-id")

	tests := []struct {
		name string
		fn   func()
	}{
		{
			name: "DebugContext",
			fn: func() {
				DebugContext(ctx, "debug message", "key", "value")
			},
		},
		{
			name: "InfoContext",
			fn: func() {
				InfoContext(ctx, "info message", "key", "value")
			},
		},
		{
			name: "WarnContext",
			fn: func() {
				WarnContext(ctx, "warning message", "key", "value")
			},
		},
		{
			name: "ErrorContext",
			fn: func() {
				ErrorContext(ctx, "error message", "key", "value")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(tt.fn)
			if output == "" {
				t.Error("Expected log output, got empty string")
			}
			if !strings.Contains(output, "test-request-id") {
				t.Error("Expected output to contain request ID")
			}
		})
	}
}

func TestHTTPRequest(t *testing.T) {
	output := captureLogOutput(func() {
		HTTPRequest("GET", "/api/cantica/v01", "127.0.0.1:1234", 200, 100*time.Millisecond)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "GET") {
		t.Error("Expected output to contain method")
	}
	if !strings.Contains(output, "/api/cantica/v01") {
		t.Error("Expected output to contain path")
	}
	if !strings.Contains(output, "http_request") {
		t.Error("Expected output to contain http_request")
	}
}

func TestHTTPRequestContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-456")

	output := captureLogOutput(func() {
		HTTPRequestContext(ctx, "GET", "/api/summary", "10.0.0.1:9999", 200, 75*time.Millisecond)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "req-456") {
		t.Error("Expected output to contain request ID")
	}
}

func TestStructuralMismatch(t *testing.T) {
	output := captureLogOutput(func() {
		StructuralMismatch("ach01", "lines", 8, 7)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "ach01") {
		t.Error("Expected output to contain responsion id")
	}
	if !strings.Contains(output, "lines") {
		t.Error("Expected output to contain quantity")
	}
	if !strings.Contains(output, "structural_mismatch") {
		t.Error("Expected output to contain structural_mismatch")
	}
}

func TestCanticumSkipped(t *testing.T) {
	output := captureLogOutput(func() {
		CanticumSkipped("nu02", "only one strophe", "strophes", 1)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "nu02") {
		t.Error("Expected output to contain responsion id")
	}
	if !strings.Contains(output, "only one strophe") {
		t.Error("Expected output to contain reason")
	}
	if !strings.Contains(output, "canticum_skipped") {
		t.Error("Expected output to contain canticum_skipped")
	}
}

func TestAnalysisRun(t *testing.T) {
	output := captureLogOutput(func() {
		AnalysisRun("compiled", 11, 64)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "compiled") {
		t.Error("Expected output to contain corpus")
	}
	if !strings.Contains(output, "analysis_run") {
		t.Error("Expected output to contain analysis_run")
	}
}

func TestCompileIssue(t *testing.T) {
	output := captureLogOutput(func() {
		CompileIssue("responsion_v_scan.xml", "273", "unbalanced bracket")
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "273") {
		t.Error("Expected output to contain line id")
	}
	if !strings.Contains(output, "compile_issue") {
		t.Error("Expected output to contain compile_issue")
	}
}

func TestWebSocketEvent(t *testing.T) {
	output := captureLogOutput(func() {
		WebSocketEvent("client_connected", 5)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "client_connected") {
		t.Error("Expected output to contain event")
	}
	if !strings.Contains(output, "websocket_event") {
		t.Error("Expected output to contain websocket_event")
	}
}

func TestServerStartup(t *testing.T) {
	output := captureLogOutput(func() {
		ServerStartup("http", "HTTP/1.1", 8080)
	})

	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "8080") {
		t.Error("Expected output to contain port")
	}
	if !strings.Contains(output, "server_startup") {
		t.Error("Expected output to contain server_startup")
	}
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name         string
		writeCode    int
		expectedCode int
		callTwice    bool
	}{
		{
			name:         "Write header once",
			writeCode:    http.StatusNotFound,
			expectedCode: http.StatusNotFound,
			callTwice:    false,
		},
		{
			name:         "Write header twice (second call ignored)",
			writeCode:    http.StatusNotFound,
			expectedCode: http.StatusNotFound,
			callTwice:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			rw := &responseWriter{
				ResponseWriter: recorder,
				statusCode:     http.StatusOK,
			}

			rw.WriteHeader(tt.writeCode)
			if tt.callTwice {
				rw.WriteHeader(http.StatusInternalServerError)
			}

			if rw.statusCode != tt.expectedCode {
				t.Errorf("Expected status code %d, got %d", tt.expectedCode, rw.statusCode)
			}
			if !rw.written {
				t.Error("Expected written flag to be true")
			}
		})
	}
}

func TestResponseWriter_Write(t *testing.T) {
	recorder := httptest.NewRecorder()
	rw := &responseWriter{
		ResponseWriter: recorder,
		statusCode:     http.StatusOK,
	}

	data := []byte("test data")
	n, err := rw.Write(data)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, rw.statusCode)
	}
	if rw.bytes != len(data) {
		t.Errorf("Expected %d bytes recorded, got %d", len(data), rw.bytes)
	}
}

func TestGenerateRequestID(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateRequestID()
		if id == "" {
			t.Error("Expected non-empty request ID")
		}
		if len(id) != 16 {
			t.Errorf("Expected request ID length 16, got %d", len(id))
		}
		if ids[id] {
			t.Error("Generated duplicate request ID")
		}
		ids[id] = true
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		existingHeader string
		checkFunc      func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:           "Generate new request ID",
			existingHeader: "",
			checkFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				reqID := w.Header().Get("X-Request-ID")
				if reqID == "" {
					t.Error("Expected X-Request-ID header to be set")
				}
				if len(reqID) != 16 {
					t.Errorf("Expected request ID length 16, got %d", len(reqID))
				}
			},
		},
		{
			name:           "Use existing request ID from header",
			existingHeader: "existing-req-id-123",
			checkFunc: func(t *testing.T, w *httptest.ResponseRecorder) {
				reqID := w.Header().Get("X-Request-ID")
				if reqID != "existing-req-id-123" {
					t.Errorf("Expected request ID 'existing-req-id-123', got '%s'", reqID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestID := GetRequestID(r.Context())
				if requestID == "" {
					t.Error("Expected request ID in context")
				}
				w.WriteHeader(http.StatusOK)
			})

			middleware := RequestIDMiddleware(handler)
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.existingHeader != "" {
				req.Header.Set("X-Request-ID", tt.existingHeader)
			}
			w := httptest.NewRecorder()

			middleware.ServeHTTP(w, req)

			tt.checkFunc(t, w)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("response body"))
	})

	middleware := LoggingMiddleware(handler)
	req := httptest.NewRequest("GET", "/api/plays", nil)
	ctx := WithRequestID(req.Context(), "test-req-id")
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	output := captureLogOutput(func() {
		middleware.ServeHTTP(w, req)
	})

	if output == "" {
		t.Error("Expected log output")
	}
	if !strings.Contains(output, "/api/plays") {
		t.Error("Expected output to contain path")
	}
	// Write without WriteHeader defaults to 200
	if !strings.Contains(output, "200") {
		t.Error("Expected output to contain status code 200")
	}
	if !strings.Contains(output, "response_bytes") {
		t.Error("Expected output to contain response size")
	}
}

func TestCombinedMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetRequestID(r.Context())
		if requestID == "" {
			t.Error("Expected request ID in context")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	middleware := CombinedMiddleware(handler)
	req := httptest.NewRequest("GET", "/combined", nil)
	w := httptest.NewRecorder()

	output := captureLogOutput(func() {
		middleware.ServeHTTP(w, req)
	})

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}

	if output == "" {
		t.Error("Expected log output")
	}
	if !strings.Contains(output, "/combined") {
		t.Error("Expected output to contain path")
	}
}

func TestReplaceAttrTimestamp(t *testing.T) {
	// Timestamps should come out RFC3339 through the real InitLogger path
	output := captureLogOutputWithInit(LevelInfo, FormatJSON, func() {
		Info("timestamp test")
	})

	if output == "" {
		t.Error("Expected log output")
	}
	if !strings.Contains(output, "T") {
		t.Error("Expected timestamp to be in RFC3339 format")
	}
	if !strings.Contains(output, "timestamp test") {
		t.Error("Expected output to contain test message")
	}
}

func TestInit(t *testing.T) {
	if defaultLogger == nil {
		t.Error("Expected defaultLogger to be initialized by init()")
	}
}

func TestLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("Expected LevelDebug < LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("Expected LevelInfo < LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("Expected LevelWarn < LevelError")
	}
}

func TestGenerateRequestIDFallback(t *testing.T) {
	// The rand.Read error path cannot be triggered without mocking; verify
	// the fallback expression itself produces a usable id.
	fallbackID := hex.EncodeToString([]byte(time.Now().String()))[:16]

	if len(fallbackID) != 16 {
		t.Errorf("Expected fallback ID length 16, got %d", len(fallbackID))
	}

	if _, err := hex.DecodeString(fallbackID); err != nil {
		t.Errorf("Expected fallback ID to be valid hex, got error: %v", err)
	}
}
