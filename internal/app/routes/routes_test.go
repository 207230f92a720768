package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vacantes/internal/app/controllers"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
	"github.com/yigit/vacantes/internal/pkg/auth"
	"github.com/yigit/vacantes/internal/pkg/ratelimit"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// Handlers past the auth layer are never reached here, so the services can
// run without stores.
func newTestRouter(t *testing.T, pinger controllers.Pinger) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", TokenIssuer: "vacantes-test"})
	capacity := services.NewCapacityService(nil, nil)
	vacancy := services.NewVacancyService(nil, capacity, nil, nil, zerolog.Nop())

	router := gin.New()
	require.NotPanics(t, func() {
		SetupRouter(router,
			controllers.NewAccountController(nil),
			controllers.NewVacancyController(vacancy, capacity),
			controllers.NewApplicationController(nil),
			controllers.NewRosterController(nil),
			controllers.NewMessageController(nil),
			controllers.NewHealthController(pinger),
			middleware.NewAuthMiddleware(jwtService),
			ratelimit.Noop{},
			zerolog.Nop(),
		)
	})
	return router, jwtService
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	router, _ := newTestRouter(t, stubPinger{})
	assert.Equal(t, "pong", serve(router, http.MethodGet, "/ping", "").Body.String())
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/metrics", "").Code)

	router, _ = newTestRouter(t, stubPinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/health", "").Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, stubPinger{})

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/accounts/me"},
		{http.MethodPost, "/api/v1/vacancies"},
		{http.MethodGet, "/api/v1/vacancies/mine"},
		{http.MethodPost, "/api/v1/vacancies/1/applications"},
		{http.MethodPost, "/api/v1/vacancies/1/applications/2/accept"},
		{http.MethodGet, "/api/v1/applications/mine"},
		{http.MethodGet, "/api/v1/roster"},
		{http.MethodPost, "/api/v1/messages"},
		{http.MethodGet, "/api/v1/messages/unread-count"},
		{http.MethodPatch, "/api/v1/messages/3/read"},
	} {
		assert.Equal(t, http.StatusUnauthorized, serve(router, r.method, r.path, "").Code, r.method+" "+r.path)
	}
}

func TestRoleGates(t *testing.T) {
	router, jwtService := newTestRouter(t, stubPinger{})
	student, err := jwtService.IssueToken(1, "STUDENT", "")
	require.NoError(t, err)
	professor, err := jwtService.IssueToken(2, "PROFESSOR", "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/vacancies/mine", student).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/api/v1/vacancies/1/applications/2/reject", student).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/roster", student).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/api/v1/vacancies/1/applications", professor).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/v1/applications/mine", professor).Code)
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t, stubPinger{})
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/v1/vacancies/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/v1/vacancies/0/seats", "").Code)
}
