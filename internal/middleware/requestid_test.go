package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestRequestIDMiddleware_GeneratesUUID はIDがない場合にUUIDが生成されることを検証する。
func TestRequestIDMiddleware_GeneratesUUID(t *testing.T) {
	var fromCtx string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	header := w.Result().Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(header); err != nil {
		t.Errorf("X-Request-ID should be a UUID, got %q", header)
	}
	if fromCtx != header {
		t.Errorf("context request_id = %q, header = %q", fromCtx, header)
	}
}

// TestRequestIDMiddleware_PropagatesIncomingID は受信したIDを引き継ぐことを検証する。
func TestRequestIDMiddleware_PropagatesIncomingID(t *testing.T) {
	var fromCtx string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if fromCtx != "upstream-id" {
		t.Errorf("request_id = %q, want %q", fromCtx, "upstream-id")
	}
	if got := w.Result().Header.Get(RequestIDHeader); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want %q", got, "upstream-id")
	}
}

func TestRequestIDMiddleware_ReplacesOversizedID(t *testing.T) {
	var fromCtx string
	handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := uuid.Parse(fromCtx); err != nil {
		t.Errorf("oversized ID should be replaced with UUID, got %q", fromCtx)
	}
}

func TestRequestIDFromContext_NoValue_ReturnsEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}
