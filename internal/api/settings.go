package api

import (
	"net/http"
	"strings"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/services/generation"

	"github.com/gin-gonic/gin"
)

type SettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetSettings lists every setting, or a single one when ?key= is set. A
// missing key answers with a null value rather than 404.
func GetSettings(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	if key := c.Query("key"); key != "" {
		setting, err := app.SettingRepository.Get(ctx, key)
		if repository.IsNotFound(err) {
			c.JSON(http.StatusOK, gin.H{"key": key, "value": nil})
			return
		}
		if err != nil {
			internalError(c, err, "failed to load setting")
			return
		}

		c.JSON(http.StatusOK, setting)
		return
	}

	settings, err := app.SettingRepository.List(ctx)
	if err != nil {
		internalError(c, err, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func PutSetting(c *gin.Context) {
	app := getApp(c)

	var data SettingRequest
	if !bindJSON(c, &data) {
		return
	}
	if strings.TrimSpace(data.Key) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing key"})
		return
	}

	setting, err := app.SettingRepository.Upsert(c.Request.Context(), data.Key, data.Value)
	if err != nil {
		internalError(c, err, "failed to save setting")
		return
	}

	c.JSON(http.StatusOK, setting)
}

// GetBasePrompt reports the base prompt generation would use right now.
func GetBasePrompt(c *gin.Context) {
	app := getApp(c)

	value := app.Generation().Resolver().BasePrompt(c.Request.Context(), "")
	c.JSON(http.StatusOK, gin.H{
		"key":        models.SettingBasePrompt,
		"value":      value,
		"default":    generation.DefaultBasePrompt,
		"is_default": value == generation.DefaultBasePrompt,
	})
}
