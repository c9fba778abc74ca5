package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// hijackableRecorder records responses and supports hijacking, the way a
// live *http.Server connection does.
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (r *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.hijacked = true
	return nil, nil, nil
}

// TestStatusWriter_Hijack verifies the logging wrapper passes hijack
// requests through to the underlying connection. WebSocket upgrades on
// GET /ws depend on this.
func TestStatusWriter_Hijack(t *testing.T) {
	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	hj, ok := http.ResponseWriter(sw).(http.Hijacker)
	if !ok {
		t.Fatal("statusWriter should implement http.Hijacker")
	}

	if _, _, err := hj.Hijack(); err != nil {
		t.Fatalf("Hijack() error = %v", err)
	}
	if !rec.hijacked {
		t.Error("Hijack() should delegate to the underlying writer")
	}
}

// TestStatusWriter_HijackUnsupported verifies a clear error when the
// underlying writer cannot be hijacked.
func TestStatusWriter_HijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	_, _, err := sw.Hijack()
	if !errors.Is(err, http.ErrNotSupported) {
		t.Errorf("Hijack() error = %v, want http.ErrNotSupported", err)
	}
}

// TestStatusWriter_Unwrap verifies http.ResponseController can reach the
// underlying writer.
func TestStatusWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	if got := sw.Unwrap(); got != http.ResponseWriter(rec) {
		t.Error("Unwrap() should return the wrapped writer")
	}
}
