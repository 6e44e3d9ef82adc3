package api

import (
	"context"
	"net/http"
	"time"

	"github.com/blart-ai/blart-server/internal/services/generation"
	"github.com/blart-ai/blart-server/internal/utils/webhookutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const webhookAttempts = 3

type CronSummary struct {
	Message     string    `json:"message"`
	Success     int       `json:"success"`
	Failed      int       `json:"failed"`
	Error       string    `json:"error,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// CronGenerate runs the daily batch across all active styles. Results always
// go to review.
func CronGenerate(c *gin.Context) {
	app := getApp(c)
	cfg := app.Config()

	batch := app.Generation().BatchGenerate(c.Request.Context(), cfg.Generation.DailyCount, generation.BatchOptions{})

	app.Logger.Info("daily generation complete",
		zap.Int("success", batch.Summary.Success),
		zap.Int("failed", batch.Summary.Failed),
	)

	summary := CronSummary{
		Message:     "Daily generation complete",
		Success:     batch.Summary.Success,
		Failed:      batch.Summary.Failed,
		Error:       batch.Error,
		GeneratedAt: time.Now().UTC(),
	}

	if url := cfg.Generation.WebhookUrl; url != "" {
		go func(ctx context.Context) {
			if err := webhookutil.InvokeWithRetries(ctx, url, summary, webhookAttempts); err != nil {
				app.Logger.Warn("failed to deliver batch summary webhook", zap.Error(err))
			}
		}(app.Context())
	}

	c.JSON(http.StatusOK, summary)
}
