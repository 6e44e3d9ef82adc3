package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/blart-ai/blart-server/internal/app"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/utils/hashutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminAuthentication accepts either a stored, unrevoked X-API-Key or an
// Authorization bearer token equal to the configured admin secret.
func AdminAuthentication(ctx *gin.Context) {
	authorization := ctx.Request.Header.Get("Authorization")
	apikey := ctx.Request.Header.Get("X-API-Key")

	app := ctx.MustGet("app").(*app.App)

	if apikey != "" {
		apikeyHash := hashutil.Sha3256Hash([]byte(apikey))
		result, err := app.APIKeyRepository.GetAPIKeyWithHash(ctx.Request.Context(), apikeyHash)
		if err != nil {
			if repository.IsNotFound(err) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "The provided API key is invalid"})
				return
			}

			app.Logger.Error("Database error while checking API key", zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error checking api-keys in database"})
			return
		}

		if result.IsRevoked {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "The provided API key is revoked"})
			return
		}
	} else if authorization != "" {
		secret := app.Config().AdminSecret
		if secret == "" || !bearerMatches(authorization, secret) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}
	} else {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
		return
	}

	ctx.Next()
}

// CronAuthentication requires `Authorization: Bearer <cron secret>` when a
// cron secret is configured and lets every request through otherwise.
func CronAuthentication(ctx *gin.Context) {
	app := ctx.MustGet("app").(*app.App)

	secret := app.Config().CronSecret
	if secret != "" && !bearerMatches(ctx.Request.Header.Get("Authorization"), secret) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	ctx.Next()
}

func bearerMatches(header, secret string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
