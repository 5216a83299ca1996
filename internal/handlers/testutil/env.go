package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jwpark-dev/tripnote/internal/api"
	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	dbtestutil "github.com/jwpark-dev/tripnote/internal/database/testutil"
	"github.com/jwpark-dev/tripnote/internal/models"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/mail"
)

// CaptureMailer records outbound messages instead of delivering them.
type CaptureMailer struct {
	mu       sync.Mutex
	Messages []mail.Message
}

func (m *CaptureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	return nil
}

// Env wires a full router over an isolated in-memory database.
type Env struct {
	T      *testing.T
	Router *gin.Engine
	DB     *gorm.DB
	Tokens *iauth.TokenService
	Mailer *CaptureMailer
}

// NewEnv builds the complete HTTP stack for handler-level tests. Federated
// login stays unwired; its flow needs a live provider.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtestutil.MustOpenTestDB(t)

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: strings.Repeat("s", 32),
		Issuer: "tripnote",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	mailer := &CaptureMailer{}

	authSvc, err := services.NewAuthService(db, tokens, mailer, services.DefaultCodeTTL, nil)
	require.NoError(t, err)
	chapterSvc, err := services.NewChapterService(db)
	require.NoError(t, err)
	diarySvc, err := services.NewDiaryService(db, chapterSvc)
	require.NoError(t, err)

	router, err := api.NewRouter(api.Dependencies{
		DB:             db,
		Tokens:         tokens,
		Auth:           authSvc,
		Chapters:       chapterSvc,
		Diary:          diarySvc,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	require.NoError(t, err)

	return &Env{T: t, Router: router, DB: db, Tokens: tokens, Mailer: mailer}
}

// Request performs an HTTP request against the router. A non-nil payload is
// sent as JSON; a non-empty token is attached as a bearer credential.
func (e *Env) Request(method, path string, payload any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(e.T, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// StoredCode reads the live verification code for an email straight from the
// database, standing in for the mailbox.
func (e *Env) StoredCode(email string) string {
	e.T.Helper()

	var record models.VerificationCode
	require.NoError(e.T, e.DB.First(&record, "email = ?", email).Error)
	return record.Code
}

// Response mirrors the API envelope for decoding in tests.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

// ErrorInfo mirrors the envelope's error payload.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeResponse parses the standard response envelope.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// DecodeInto unmarshals an envelope's data payload into dest.
func DecodeInto(t *testing.T, data json.RawMessage, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, dest))
}
