package middlewares

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
)

// Context keys set by the session and gate middlewares.
const (
	ContextEmail       = "email"
	ContextToken       = "session_token"
	ContextTokenExpiry = "session_expiry"
	ContextOwner       = "owner"
	ContextDecision    = "access_decision"
)

// sessionToken reads the bearer header, falling back to the token query
// parameter browsers use for websocket upgrades.
func sessionToken(c *gin.Context) string {
	if token := utils.BearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return c.Query("token")
}

// SessionMiddleware resolves the session marker into an email. A missing or
// invalid token is not an error here; the access gate turns it into an
// unauthenticated decision.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			utils.InfoLogger.Debugf("Ignoring invalid session token: %v", err)
			c.Next()
			return
		}

		c.Set(ContextEmail, claims.Email)
		c.Set(ContextToken, token)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// RequireSession rejects requests without a valid session token.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionEmail(c) == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired session"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func SessionEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// RevokeSession blacklists the token presented with the request.
func RevokeSession(c *gin.Context) {
	token := c.GetString(ContextToken)
	if token == "" {
		return
	}
	expiry, _ := c.Get(ContextTokenExpiry)
	until, _ := expiry.(time.Time)
	utils.BlacklistToken(token, until)
}

// CurrentOwner returns the user row loaded by the access gate.
func CurrentOwner(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextOwner)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
