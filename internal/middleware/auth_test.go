package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/database/testutil"
	"github.com/jwpark-dev/tripnote/internal/models"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *iauth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: strings.Repeat("s", 32),
		Issuer: "tripnote",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	policy := iauth.NewPolicyTable(
		iauth.Rule{Pattern: "/public", Requirement: iauth.Public},
	)

	router := gin.New()
	router.Use(Authenticate(policy, tokens, db))
	router.Use(RequireAuth())

	echo := func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{
			"kind":  principal.Kind(),
			"email": principal.Email(),
		})
	}
	router.GET("/public", echo)
	router.GET("/protected", echo)

	return router, db, tokens
}

func createTestAccount(t *testing.T, db *gorm.DB, origin string) models.Account {
	t.Helper()

	account := models.Account{
		Email:     "ann@example.com",
		Name:      "Ann",
		Password:  "placeholder",
		Activated: true,
		Origin:    origin,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func TestPublicRouteIgnoresBadToken(t *testing.T) {
	router, _, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"kind":"anonymous"`)
}

func TestProtectedRouteWithoutCredential(t *testing.T) {
	router, _, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestProtectedRouteWithValidToken(t *testing.T) {
	router, db, tokens := newAuthTestRouter(t)
	account := createTestAccount(t, db, models.OriginLocal)

	token, err := tokens.Issue(account.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"kind":"local"`)
	require.Contains(t, rec.Body.String(), `"email":"ann@example.com"`)
}

func TestProtectedRouteWithUnknownSubject(t *testing.T) {
	router, _, tokens := newAuthTestRouter(t)

	token, err := tokens.Issue("missing-account")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFederatedAccountYieldsFederatedPrincipal(t *testing.T) {
	router, db, tokens := newAuthTestRouter(t)
	account := createTestAccount(t, db, models.OriginGoogle)

	token, err := tokens.Issue(account.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"kind":"federated"`)
}
