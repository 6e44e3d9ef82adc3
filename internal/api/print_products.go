package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreatePrintProductRequest struct {
	Name           string   `json:"name"`
	SizeLabel      string   `json:"size_label"`
	SKU            string   `json:"sku"`
	RetailPriceAUD int      `json:"retail_price_aud"`
	FrameColors    []string `json:"frame_colors"`
	IsActive       *bool    `json:"is_active"`
	SortOrder      int      `json:"sort_order"`
}

func ListPrintProducts(c *gin.Context) {
	app := getApp(c)

	products, err := app.PrintProductRepository.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to load print products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"print_products": products})
}

func CreatePrintProduct(c *gin.Context) {
	app := getApp(c)

	var data CreatePrintProductRequest
	if !bindJSON(c, &data) {
		return
	}
	if strings.TrimSpace(data.Name) == "" || data.SKU == "" || data.RetailPriceAUD <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, sku and a positive retail_price_aud are required"})
		return
	}

	product := &models.PrintProduct{
		ID:             uuid.Must(uuid.NewRandom()),
		Name:           data.Name,
		SizeLabel:      data.SizeLabel,
		SKU:            data.SKU,
		RetailPriceAUD: data.RetailPriceAUD,
		FrameColors:    data.FrameColors,
		IsActive:       data.IsActive == nil || *data.IsActive,
		SortOrder:      data.SortOrder,
		CreatedAt:      time.Now().UTC(),
	}
	if product.FrameColors == nil {
		product.FrameColors = []string{}
	}

	created, err := app.PrintProductRepository.Create(c.Request.Context(), product)
	if err != nil {
		internalError(c, err, "failed to create print product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"print_product": created})
}
