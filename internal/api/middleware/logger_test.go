package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	orig := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(orig) })

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	w := httptest.NewRecorder()
	middleware.Logger(next).ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status to pass through, got %d", w.Code)
	}

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/api/system/health", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log line to contain %q, got %q", want, out)
		}
	}
}
