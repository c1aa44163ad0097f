package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aureusmetals/aureus-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func TestLoggingRecordsWrittenStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: buf})

	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status not propagated, got %d", w.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"status":404`)) {
		t.Fatalf("expected status in completion log; entries=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("request.complete")) {
		t.Fatalf("expected completion entry; entries=%s", buf.String())
	}
}

func TestLoggingDefaultsImplicitOK(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: buf})

	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok")) // no explicit WriteHeader
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if !bytes.Contains(buf.Bytes(), []byte(`"status":200`)) {
		t.Fatalf("expected implicit 200 in completion log; entries=%s", buf.String())
	}
}

func TestLoggingNilLoggerPassesThrough(t *testing.T) {
	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected passthrough, got %d", w.Code)
	}
}
