package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/logger"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

var errSSODisabled = errors.New("SSO_DISABLED", "Federated login is not configured", http.StatusServiceUnavailable)

// OAuthHandler drives the Google login round trip. The browser is sent to the
// provider with an encrypted state value and returns on the callback, where
// the code is exchanged and the session handed back to the frontend.
type OAuthHandler struct {
	provider     *iauth.GoogleProvider
	bridge       *iauth.Bridge
	states       *iauth.StateCodec
	frontendBase string
}

func NewOAuthHandler(provider *iauth.GoogleProvider, bridge *iauth.Bridge, states *iauth.StateCodec, frontendBase string) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		bridge:       bridge,
		states:       states,
		frontendBase: strings.TrimRight(frontendBase, "/"),
	}
}

// GET /oauth2/google
func (h *OAuthHandler) Begin(c *gin.Context) {
	if h.provider == nil {
		response.Error(c, errSSODisabled)
		return
	}

	state, err := h.states.Encode()
	if err != nil {
		response.Error(c, errors.Wrap(err, "failed to start federated login"))
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GET /login/oauth2/code/google
func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.provider == nil {
		response.Error(c, errSSODisabled)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.WithModule("auth").Warn("federated login denied",
			zap.String("error", errParam),
		)
		h.redirectWithError(c)
		return
	}

	if _, err := h.states.Decode(c.Query("state")); err != nil {
		logger.WithModule("auth").Warn("federated login state rejected", zap.Error(err))
		h.redirectWithError(c)
		return
	}

	profile, err := h.provider.Exchange(requestContext(c), c.Query("code"))
	if err != nil {
		logger.WithModule("auth").Warn("federated login exchange failed", zap.Error(err))
		h.redirectWithError(c)
		return
	}

	redirect, err := h.bridge.Finish(requestContext(c), profile)
	if err != nil {
		logger.WithModule("auth").Error("federated login failed", zap.Error(err))
		h.redirectWithError(c)
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// redirectWithError sends the browser back to the frontend login screen. The
// callback is a top-level navigation, so a JSON error body would dead-end the
// user on a blank page.
func (h *OAuthHandler) redirectWithError(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendBase+"/login?error=oauth")
}
