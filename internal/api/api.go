package api

import (
	"net/http"
	"strconv"

	"github.com/blart-ai/blart-server/internal/app"
	"github.com/blart-ai/blart-server/internal/db/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func getApp(c *gin.Context) *app.App {
	return c.MustGet("app").(*app.App)
}

// bindJSON decodes the request body into v and answers 400 when it cannot.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "failed to parse request body"})
		return false
	}
	return true
}

// validID answers 404 for path ids that are not uuids, which would never
// match a row.
func validID(c *gin.Context, id, what string) bool {
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
		return false
	}
	return true
}

// lookupFailed writes the response for a failed single-row lookup.
func lookupFailed(c *gin.Context, err error, what string) {
	if repository.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
		return
	}
	internalError(c, err, "failed to load "+what)
}

func internalError(c *gin.Context, err error, message string) {
	getApp(c).Logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}

func queryInt(c *gin.Context, key string, def int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return value
}
