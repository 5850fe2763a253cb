package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/nguyentantai21042004/subflow/internal/http/handlers"
	"github.com/nguyentantai21042004/subflow/internal/logger"
)

func TestHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		HealthHandler: httpH.NewHealthHandler(),
		Logger:        logger.NewNop(),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthcheck = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		ConvertHandler: httpH.NewConvertHandler(nil, logger.NewNop(), t.TempDir()),
		HealthHandler:  httpH.NewHealthHandler(),
	})

	want := map[string]bool{
		"GET /healthcheck":     false,
		"POST /api/convert":    false,
		"POST /api/transcribe": false,
		"POST /api/export":     false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Errorf("route %s not registered", key)
		}
	}
}

func TestConvertWithoutFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		ConvertHandler: httpH.NewConvertHandler(nil, logger.NewNop(), t.TempDir()),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/convert", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
