package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/papochat/papo/pkg/auth"
)

// IdentityKey is where the middleware stores the verified *auth.Claims.
const IdentityKey = "identity"

// AuthMiddleware verifies the bearer token on REST requests. The redis
// client is optional; when present, blacklisted tokens are rejected.
func AuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		verifyAndBind(c, jwtManager, redisClient, token)
	}
}

// WSAuthMiddleware authenticates the websocket handshake. The token comes
// from the "token" query parameter, with the Authorization header as a
// fallback for non-browser clients.
func WSAuthMiddleware(jwtManager *auth.JWTManager, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					token = parts[1]
				}
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		verifyAndBind(c, jwtManager, redisClient, token)
	}
}

func verifyAndBind(c *gin.Context, jwtManager *auth.JWTManager, redisClient *redis.Client, token string) {
	if redisClient != nil {
		exists, err := redisClient.Exists(context.Background(), "blacklist:"+token).Result()
		if err != nil || exists > 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is revoked"})
			c.Abort()
			return
		}
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return
	}

	c.Set(IdentityKey, claims)
	c.Next()
}

// ClaimsFromContext fetches the identity stored by the auth middlewares.
func ClaimsFromContext(c *gin.Context) *auth.Claims {
	return c.MustGet(IdentityKey).(*auth.Claims)
}
