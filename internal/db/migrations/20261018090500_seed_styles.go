package migrations

import (
	"context"
	"strings"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/utils/slugutil"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var seedStyleNames = []string{
	"Abstract",
	"Geometric",
	"Landscapes",
	"Botanical",
	"Portraits",
	"Celestial",
	"Ocean-Water",
	"Minimalist",
	"Texture",
	"Surreal",
}

var seedPrintProducts = []models.PrintProduct{
	{Name: "Small Framed Print", SizeLabel: "30x40cm", SKU: "GLOBAL-CFPM-12X16", RetailPriceAUD: 8900},
	{Name: "Medium Framed Print", SizeLabel: "50x70cm", SKU: "GLOBAL-CFPM-20X28", RetailPriceAUD: 14900},
	{Name: "Large Framed Print", SizeLabel: "70x100cm", SKU: "GLOBAL-CFPM-28X40", RetailPriceAUD: 22900},
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, conn *bun.DB) error {
		return conn.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for i, name := range seedStyleNames {
				prefix := "Create a " + strings.ToLower(name) + " artwork"
				style := models.NewStyle(name, slugutil.Slugify(name), prefix, "", i)
				if _, err := tx.NewInsert().Model(style).On("CONFLICT (slug) DO NOTHING").Exec(ctx); err != nil {
					return err
				}
			}

			now := time.Now().UTC()
			for i, p := range seedPrintProducts {
				product := p
				product.ID = uuid.Must(uuid.NewRandom())
				product.FrameColors = []string{"black", "white", "natural"}
				product.IsActive = true
				product.SortOrder = i
				product.CreatedAt = now
				if _, err := tx.NewInsert().Model(&product).Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	}, func(ctx context.Context, conn *bun.DB) error {
		slugs := make([]string, len(seedStyleNames))
		for i, name := range seedStyleNames {
			slugs[i] = slugutil.Slugify(name)
		}
		if _, err := conn.NewDelete().Model((*models.Style)(nil)).Where("slug IN (?)", bun.In(slugs)).Exec(ctx); err != nil {
			return err
		}

		skus := make([]string, len(seedPrintProducts))
		for i, p := range seedPrintProducts {
			skus[i] = p.SKU
		}
		_, err := conn.NewDelete().Model((*models.PrintProduct)(nil)).Where("sku IN (?)", bun.In(skus)).Exec(ctx)
		return err
	})
}
