package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func TestHealthController_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		pinger     Pinger
		wantCode   int
		wantStatus string
		wantCheck  string
	}{
		{
			name:       "returns healthy when database is reachable",
			pinger:     stubPinger{},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantCheck:  "ok",
		},
		{
			name:       "returns unhealthy when ping fails",
			pinger:     stubPinger{err: errors.New("dial tcp: connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantCheck:  "unreachable",
		},
		{
			name:       "reports missing database",
			pinger:     nil,
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantCheck:  "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewHealthController(tt.pinger, "1.0.0")

			router := gin.New()
			router.GET("/health", controller.Status)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/health", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)

			var response HealthResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, "1.0.0", response.Version)
			assert.Equal(t, tt.wantCheck, response.Checks["database"])
			assert.NotEmpty(t, response.Time)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}
