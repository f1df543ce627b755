package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"focushub/internal/microservices/http-api/handler"
	"focushub/internal/microservices/http-api/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.New(router.Deps{
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
		Health:    handler.NewHealthHandler(okPinger{}, nil),
	})
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_Infrastructure(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/ratings?post_id=1"},
		{http.MethodPost, "/api/ratings"},
		{http.MethodPatch, "/api/ratings/1"},
		{http.MethodPut, "/api/ratings/1"},
		{http.MethodGet, "/api/posts"},
		{http.MethodGet, "/api/posts/1/comments"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodGet, "/api/users/mira"},
	}

	for _, p := range paths {
		w := serve(r, p.method, p.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := serve(newRouter(), http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
