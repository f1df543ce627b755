package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"focushub/internal/microservices/http-api/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		db     fakePinger
		status int
		want   string
	}{
		{"Healthy", fakePinger{}, http.StatusOK, "healthy"},
		{"DatabaseDown", fakePinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", handler.NewHealthHandler(tt.db, nil).Health)

			w := doJSON(r, http.MethodGet, "/health", "", nil)

			require.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.want, body["status"])
			assert.Equal(t, "disabled", body["checks"].(map[string]any)["redis"])
		})
	}
}
