package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/utils/slugutil"

	"github.com/gin-gonic/gin"
)

type CreateStyleRequest struct {
	Name         string `json:"name"`
	PromptPrefix string `json:"prompt_prefix"`
	Description  string `json:"description"`
}

// UpdateStyleRequest carries optional fields; nil means unchanged. The slug
// is not editable.
type UpdateStyleRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	PromptPrefix    *string   `json:"prompt_prefix"`
	IsActive        *bool     `json:"is_active"`
	SortOrder       *int      `json:"sort_order"`
	ReferenceImages *[]string `json:"reference_images"`
}

func ListStyles(c *gin.Context) {
	app := getApp(c)

	styles, err := app.StyleRepository.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to load styles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"styles": styles})
}

func CreateStyle(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	var data CreateStyleRequest
	if !bindJSON(c, &data) {
		return
	}

	name := strings.TrimSpace(data.Name)
	slug := slugutil.Slugify(name)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Style name is required"})
		return
	}

	if _, err := app.StyleRepository.GetBySlug(ctx, slug); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("a style with slug %q already exists", slug)})
		return
	} else if !repository.IsNotFound(err) {
		internalError(c, err, "failed to check style slug")
		return
	}

	sortOrder, err := app.StyleRepository.NextSortOrder(ctx)
	if err != nil {
		internalError(c, err, "failed to compute sort order")
		return
	}

	prefix := data.PromptPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = fmt.Sprintf("Create a %s artwork", strings.ToLower(name))
	}

	style, err := app.StyleRepository.Create(ctx, models.NewStyle(name, slug, prefix, data.Description, sortOrder))
	if err != nil {
		internalError(c, err, "failed to create style")
		return
	}

	c.JSON(http.StatusOK, gin.H{"style": style})
}

func UpdateStyle(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "style") {
		return
	}

	var data UpdateStyleRequest
	if !bindJSON(c, &data) {
		return
	}

	style, err := app.StyleRepository.GetByID(ctx, id)
	if err != nil {
		lookupFailed(c, err, "style")
		return
	}

	var columns []string
	if data.Name != nil {
		style.Name = *data.Name
		columns = append(columns, "name")
	}
	if data.Description != nil {
		style.Description = *data.Description
		columns = append(columns, "description")
	}
	if data.PromptPrefix != nil {
		style.PromptPrefix = *data.PromptPrefix
		columns = append(columns, "prompt_prefix")
	}
	if data.IsActive != nil {
		style.IsActive = *data.IsActive
		columns = append(columns, "is_active")
	}
	if data.SortOrder != nil {
		style.SortOrder = *data.SortOrder
		columns = append(columns, "sort_order")
	}
	if data.ReferenceImages != nil {
		style.ReferenceImages = *data.ReferenceImages
		columns = append(columns, "reference_images")
	}

	if len(columns) > 0 {
		if err := app.StyleRepository.UpdateColumns(ctx, style, columns...); err != nil {
			internalError(c, err, "failed to update style")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"style": style})
}

// DeleteStyle refuses while any artwork still references the style.
func DeleteStyle(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "style") {
		return
	}

	count, err := app.ArtworkRepository.CountByStyle(ctx, id)
	if err != nil {
		internalError(c, err, "failed to count artworks")
		return
	}
	if count > 0 {
		plural := "s"
		if count == 1 {
			plural = ""
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Cannot delete: %d artwork%s use this style. Archive them first.", count, plural)})
		return
	}

	if err := app.StyleRepository.DeleteByID(ctx, id); err != nil {
		internalError(c, err, "failed to delete style")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
