package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PrintProduct is a print size on offer. Prices are stored in AUD cents.
type PrintProduct struct {
	bun.BaseModel `bun:"table:print_products"`

	ID             uuid.UUID `bun:",type:uuid,pk" json:"id"`
	Name           string    `bun:",notnull" json:"name"`
	SizeLabel      string    `bun:",notnull" json:"size_label"`
	SKU            string    `bun:"sku,notnull" json:"sku"`
	RetailPriceAUD int       `bun:"retail_price_aud,notnull" json:"retail_price_aud"`
	FrameColors    []string  `bun:",type:jsonb,notnull" json:"frame_colors"`
	IsActive       bool      `bun:",notnull" json:"is_active"`
	SortOrder      int       `bun:",notnull" json:"sort_order"`
	CreatedAt      time.Time `bun:",notnull" json:"created_at"`
}
