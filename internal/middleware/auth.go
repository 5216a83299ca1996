package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/models"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/logger"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

const (
	CtxPrincipalKey   = "authPrincipal"
	CtxRequirementKey = "authRequirement"
)

// Authenticate resolves the request identity and records the route policy
// verdict, but never rejects a request itself. A bad or absent credential on a
// public route must not break the request, so every failure path degrades to
// an anonymous principal and enforcement is deferred to RequireAuth.
func Authenticate(policy *iauth.PolicyTable, tokens *iauth.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requirement := policy.Evaluate(c.Request.Method, c.Request.URL.Path)
		c.Set(CtxRequirementKey, requirement)
		c.Set(CtxPrincipalKey, resolvePrincipal(c, tokens, db))
		c.Next()
	}
}

// RequireAuth rejects unauthenticated requests to protected routes with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		requirement, ok := c.Get(CtxRequirementKey)
		if !ok || requirement != iauth.Protected {
			c.Next()
			return
		}

		if !CurrentPrincipal(c).Authenticated() {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentPrincipal returns the request principal, or the anonymous principal
// when authentication has not run.
func CurrentPrincipal(c *gin.Context) iauth.Principal {
	if value, ok := c.Get(CtxPrincipalKey); ok {
		if principal, ok := value.(iauth.Principal); ok {
			return principal
		}
	}
	return iauth.NewAnonymousPrincipal()
}

func resolvePrincipal(c *gin.Context, tokens *iauth.TokenService, db *gorm.DB) iauth.Principal {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return iauth.NewAnonymousPrincipal()
	}

	token := strings.TrimSpace(authz[7:])
	subject, err := tokens.Verify(token)
	if err != nil {
		logger.WithModule("auth").Debug("token rejected",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		return iauth.NewAnonymousPrincipal()
	}

	var account models.Account
	if err := db.WithContext(c.Request.Context()).First(&account, "id = ?", subject).Error; err != nil {
		return iauth.NewAnonymousPrincipal()
	}

	if account.Origin == models.OriginGoogle {
		return iauth.NewFederatedPrincipal(account, nil)
	}
	return iauth.NewLocalPrincipal(account)
}
