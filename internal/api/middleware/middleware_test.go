package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var gotID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID == "" {
		t.Fatal("request id не сгенерирован")
	}
	if rec.Header().Get("X-Request-Id") != gotID {
		t.Errorf("заголовок X-Request-Id = %q, в контексте %q",
			rec.Header().Get("X-Request-Id"), gotID)
	}
}

func TestRequestID_Passthrough(t *testing.T) {
	var gotID string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "gw-12345")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "gw-12345" {
		t.Errorf("request id = %q, ожидался переданный gw-12345", gotID)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/files/upload", "/api/v1/files/upload"},
		{"/api/v1/admin/files", "/api/v1/admin/files"},
		{"/api/v1/admin/files/file:1712000000000", "/api/v1/admin/files/{id}"},
		{"/api/v1/admin/files/file:1712000000000/approve", "/api/v1/admin/files/{id}/approve"},
		{"/api/v1/admin/files/file:1712000000000/reject", "/api/v1/admin/files/{id}/reject"},
		{"/api/v1/admin/categories", "/api/v1/admin/categories"},
		{"/api/v1/admin/categories/School", "/api/v1/admin/categories/{name}"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидалось %q", tt.path, got, tt.want)
		}
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusTeapot)
	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, ожидался %d", rw.statusCode, http.StatusTeapot)
	}
	if rw.written != 4 {
		t.Errorf("written = %d, ожидалось 4", rw.written)
	}
}
