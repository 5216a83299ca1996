package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwpark-dev/tripnote/internal/middleware"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

// Me returns the profile behind the current bearer token.
//
// GET /api/users/me
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := middleware.CurrentPrincipal(c)
		if !principal.Authenticated() {
			response.Error(c, errors.ErrUnauthorized)
			return
		}

		account := principal.Account()
		payload := gin.H{
			"id":               account.ID,
			"email":            account.Email,
			"name":             account.Name,
			"activated":        account.Activated,
			"origin":           account.Origin,
			"kind":             principal.Kind(),
			"reminder_setting": account.ReminderSetting,
		}
		if attrs := principal.Attributes(); attrs != nil {
			payload["attributes"] = attrs
		}

		response.Success(c, http.StatusOK, payload)
	}
}
