package middleware

import (
	"net/http"
	"strings"

	"ratehub/internal/api/authz"
	"ratehub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// Authenticate is a Gin middleware that resolves the caller into an
// authz.Actor. Reads are open, so a missing Authorization header yields the
// anonymous actor rather than an error; a header that is present but invalid
// is rejected outright.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, authz.Anonymous)
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		superuser, _ := claims["superuser"].(bool)

		c.Set(actorKey, authz.Actor{
			ID:            userID,
			Role:          role,
			Superuser:     superuser,
			Authenticated: true,
		})

		c.Next()
	}
}

// ActorFromContext returns the actor set by Authenticate, anonymous when the
// middleware did not run.
func ActorFromContext(c *gin.Context) authz.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return authz.Anonymous
	}
	actor, ok := value.(authz.Actor)
	if !ok {
		return authz.Anonymous
	}
	return actor
}
