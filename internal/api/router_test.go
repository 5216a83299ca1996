package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/database/testutil"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/mail"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Message) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: strings.Repeat("s", 32),
		Issuer: "tripnote",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	authSvc, err := services.NewAuthService(db, tokens, nopMailer{}, services.DefaultCodeTTL, nil)
	require.NoError(t, err)
	chapterSvc, err := services.NewChapterService(db)
	require.NoError(t, err)
	diarySvc, err := services.NewDiaryService(db, chapterSvc)
	require.NoError(t, err)

	router, err := NewRouter(Dependencies{
		DB:             db,
		Tokens:         tokens,
		Auth:           authSvc,
		Chapters:       chapterSvc,
		Diary:          diarySvc,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)
	return router
}

func get(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, get(router, http.MethodGet, "/health").Code)
	require.Equal(t, http.StatusOK, get(router, http.MethodGet, "/metrics").Code)
}

func TestRouterProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/users/me", "/api/chapters", "/api/entries/some-id"} {
		require.Equal(t, http.StatusUnauthorized, get(router, http.MethodGet, path).Code, path)
	}
}

func TestRouterPreflightBypassesAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/chapters", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	// Unknown paths default to protected, so anonymous callers see 401
	// rather than a route-existence oracle.
	require.Equal(t, http.StatusUnauthorized, get(router, http.MethodGet, "/does-not-exist").Code)

	// Unknown paths under a public prefix fall through to the 404 handler.
	rec := get(router, http.MethodGet, "/oauth2/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRouterOAuthRoutesAnswer503WhenUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	// Without a provider the routes stay registered and report the feature
	// as unavailable instead of pretending not to exist.
	for _, path := range []string{"/oauth2/google", "/login/oauth2/code/google"} {
		rec := get(router, http.MethodGet, path)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		require.Contains(t, rec.Body.String(), "SSO_DISABLED")
	}
}
