// Package middleware holds the gin middleware chain of the API server:
// authentication, audit trail and request metrics.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/auth/jwt"
	"github.com/sentinela-gov/sentinela/internal/common/errorx"
)

const principalKey = "principal"

// Auth validates the bearer token, checks that the user still exists and
// is active, and stores the resulting principal in the gin context. The
// role and tenant come from the database, not the token, so a role change
// takes effect before the token expires.
func Auth(jwtService *jwt.Service, store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			errorx.Respond(c, errorx.AuthenticationFailure("error.auth.missing_token"))
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errorx.Respond(c, errorx.AuthenticationFailure("error.auth.invalid_token"))
			return
		}

		user, err := store.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			errorx.Respond(c, errorx.AuthenticationFailure("error.auth.invalid_token"))
			return
		}
		if !user.Active {
			errorx.Respond(c, errorx.AuthenticationFailure("error.auth.inactive_user"))
			return
		}

		c.Set(principalKey, guard.Principal{
			ID:       user.ID,
			Email:    user.Email,
			Role:     user.Role,
			TenantID: user.EntityID,
		})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal of the request. It
// must only be called behind the Auth middleware.
func PrincipalFrom(c *gin.Context) guard.Principal {
	return c.MustGet(principalKey).(guard.Principal)
}
