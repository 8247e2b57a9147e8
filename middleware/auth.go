package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/kids-story-backend/services"
)

const sessionKey = "session"

// SessionResolver turns an access token into the live session
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*services.Session, error)
}

func AuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
			return
		}

		session, err := sessions.CurrentSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(sessionKey, session)
		c.Set("user_id", session.UserID)
		c.Set("role", string(session.Role))
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if session, err := sessions.CurrentSession(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, session)
			c.Set("user_id", session.UserID)
			c.Set("role", string(session.Role))
		}
		c.Next()
	}
}

// BearerToken reads "Bearer <token>" from Authorization, or X-Auth-Token
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.GetHeader("X-Auth-Token")
	}
	if header == "" {
		return "", false
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CurrentSession returns the session set by the auth middleware
func CurrentSession(c *gin.Context) (*services.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*services.Session)
	return session, ok && session != nil
}
