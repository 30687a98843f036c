package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aperturelog/aperture/config"
	"github.com/aperturelog/aperture/infra"
	"github.com/aperturelog/aperture/utils"
)

// AuthMiddleware authenticates mutating requests: the token comes from the
// access_token cookie or a bearer header, must verify against the JWT
// secret, and its session must still be live in redis so logout takes
// effect immediately.
func AuthMiddleware(redis *infra.RedisClient, config *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			c.Abort()
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, config)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid claims"})
			c.Abort()
			return
		}

		sessionID := c.GetString("session_id")
		alive, err := redis.Exists(c.Request.Context(), "session:"+sessionID)
		if err != nil || !alive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or revoked"})
			c.Abort()
			return
		}

		c.Next()
	}
}
