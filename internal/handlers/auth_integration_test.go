package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwpark-dev/tripnote/internal/handlers/testutil"
)

func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	register := env.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           "trip@example.com",
		"name":            "Trip Writer",
		"password":        "long-enough-pw",
		"confirmPassword": "long-enough-pw",
	}, "")
	require.Equal(t, http.StatusCreated, register.Code, register.Body.String())
	require.Len(t, env.Mailer.Messages, 1)

	login := map[string]string{"email": "trip@example.com", "password": "long-enough-pw"}

	// Login before activation is rejected.
	early := env.Request(http.MethodPost, "/api/auth/login", login, "")
	require.Equal(t, http.StatusBadRequest, early.Code)
	require.Equal(t, "AUTH_NOT_ACTIVATED", testutil.DecodeResponse(t, early).Error.Code)

	code := env.StoredCode("trip@example.com")
	verify := env.Request(http.MethodPost, "/api/auth/verify?email=trip@example.com&code="+code, nil, "")
	require.Equal(t, http.StatusOK, verify.Code, verify.Body.String())

	// The code is single use.
	replay := env.Request(http.MethodPost, "/api/auth/verify?email=trip@example.com&code="+code, nil, "")
	require.Equal(t, http.StatusBadRequest, replay.Code)

	success := env.Request(http.MethodPost, "/api/auth/login", login, "")
	require.Equal(t, http.StatusOK, success.Code, success.Body.String())

	var loginData struct {
		Token  string `json:"token"`
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, success).Data, &loginData)
	require.Equal(t, "Bearer", loginData.Type)
	require.NotEmpty(t, loginData.Token)
	require.NotEmpty(t, loginData.UserID)

	// The token opens protected routes.
	me := env.Request(http.MethodGet, "/api/users/me", nil, loginData.Token)
	require.Equal(t, http.StatusOK, me.Code)
	var meData map[string]any
	testutil.DecodeInto(t, testutil.DecodeResponse(t, me).Data, &meData)
	require.Equal(t, loginData.UserID, meData["id"])
	require.Equal(t, "trip@example.com", meData["email"])

	// Without a token the same route answers 401.
	anon := env.Request(http.MethodGet, "/api/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, anon.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	mismatch := env.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           "trip@example.com",
		"name":            "Trip Writer",
		"password":        "long-enough-pw",
		"confirmPassword": "different-pw",
	}, "")
	require.Equal(t, http.StatusBadRequest, mismatch.Code)

	invalid := env.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           "not-an-email",
		"name":            "Trip Writer",
		"password":        "short",
		"confirmPassword": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, invalid.Code)
	require.Equal(t, "BAD_REQUEST", testutil.DecodeResponse(t, invalid).Error.Code)
}

func TestRegisterDuplicateEmailResponse(t *testing.T) {
	env := testutil.NewEnv(t)

	payload := map[string]string{
		"email":           "trip@example.com",
		"name":            "Trip Writer",
		"password":        "long-enough-pw",
		"confirmPassword": "long-enough-pw",
	}

	first := env.Request(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.Request(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusBadRequest, second.Code)
	require.Equal(t, "AUTH_DUPLICATE_EMAIL", testutil.DecodeResponse(t, second).Error.Code)
}

func TestResendCodeFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	register := env.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           "trip@example.com",
		"name":            "Trip Writer",
		"password":        "long-enough-pw",
		"confirmPassword": "long-enough-pw",
	}, "")
	require.Equal(t, http.StatusCreated, register.Code)

	resend := env.Request(http.MethodPost, "/api/auth/resend-code?email=trip@example.com", nil, "")
	require.Equal(t, http.StatusOK, resend.Code)
	require.Len(t, env.Mailer.Messages, 2)

	unknown := env.Request(http.MethodPost, "/api/auth/resend-code?email=nobody@example.com", nil, "")
	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, "AUTH_UNKNOWN_ACCOUNT", testutil.DecodeResponse(t, unknown).Error.Code)
}

func TestChapterAndEntryFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	register := env.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           "trip@example.com",
		"name":            "Trip Writer",
		"password":        "long-enough-pw",
		"confirmPassword": "long-enough-pw",
	}, "")
	require.Equal(t, http.StatusCreated, register.Code)

	code := env.StoredCode("trip@example.com")
	verify := env.Request(http.MethodPost, "/api/auth/verify?email=trip@example.com&code="+code, nil, "")
	require.Equal(t, http.StatusOK, verify.Code)

	login := env.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "trip@example.com", "password": "long-enough-pw",
	}, "")
	require.Equal(t, http.StatusOK, login.Code)
	var loginData struct {
		Token string `json:"token"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, login).Data, &loginData)
	token := loginData.Token

	created := env.Request(http.MethodPost, "/api/chapters", map[string]any{
		"title":   "Ten days in Portugal",
		"country": "Portugal",
	}, token)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var chapter struct {
		ID string `json:"id"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &chapter)

	entry := env.Request(http.MethodPost, "/api/chapters/"+chapter.ID+"/entries", map[string]any{
		"entry_date": "2024-07-02T00:00:00Z",
		"title":      "Day one",
		"body":       "Arrived in Lisbon.",
	}, token)
	require.Equal(t, http.StatusCreated, entry.Code, entry.Body.String())

	list := env.Request(http.MethodGet, "/api/chapters/"+chapter.ID+"/entries", nil, token)
	require.Equal(t, http.StatusOK, list.Code)

	closed := env.Request(http.MethodPost, "/api/chapters/"+chapter.ID+"/close", nil, token)
	require.Equal(t, http.StatusOK, closed.Code)

	late := env.Request(http.MethodPost, "/api/chapters/"+chapter.ID+"/entries", map[string]any{
		"entry_date": "2024-07-09T00:00:00Z",
		"title":      "Too late",
	}, token)
	require.Equal(t, http.StatusBadRequest, late.Code)
	require.Equal(t, "CHAPTER_CLOSED", testutil.DecodeResponse(t, late).Error.Code)

	// Chapter routes without a token stay closed.
	anon := env.Request(http.MethodGet, "/api/chapters", nil, "")
	require.Equal(t, http.StatusUnauthorized, anon.Code)
}
