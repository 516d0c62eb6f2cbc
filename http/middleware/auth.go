package middlewares

import (
	"github.com/edushelf/edushelf-catalog/config"
	"github.com/edushelf/edushelf-catalog/infra"
	"github.com/edushelf/edushelf-catalog/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware gates the admin console endpoints. Tokens are issued by the
// external identity provider; this middleware only verifies the signature
// and that the provider still considers the session live (it writes
// session:<user_id> into Redis on sign-in and removes it on sign-out).
func AuthMiddleware(redis *infra.RedisClient, cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			utils.JSON401(c, "Authorization token is required")
			c.Abort()
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, cfg)
		if err != nil || !parsedToken.Valid {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSON401(c, "Invalid token claims")
			c.Abort()
			return
		}

		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			utils.JSON401(c, err.Error())
			c.Abort()
			return
		}

		userID := c.GetString("user_id")
		live, err := redis.Exists(c.Request.Context(), "session:"+userID)
		if err != nil {
			utils.JSON500(c, "Failed to verify session")
			c.Abort()
			return
		}
		if !live {
			utils.JSON401(c, "Session has been signed out")
			c.Abort()
			return
		}

		if c.GetString("permission") != "admin" {
			utils.JSON403(c, "Forbidden: admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
