package server

import (
	"net/http"

	"github.com/blart-ai/blart-server/internal/api"
	"github.com/blart-ai/blart-server/internal/api/middleware"
	"github.com/blart-ai/blart-server/internal/app"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := s.ginEngine.Group("/api")
	public.GET("/gallery", handlerWrapper(app, api.Gallery))
	public.GET("/artworks/:slug", handlerWrapper(app, api.GetArtwork))
	public.GET("/artworks/:slug/download", handlerWrapper(app, api.Download))
	public.POST("/track", handlerWrapper(app, api.Track))

	cron := s.ginEngine.Group("/api/cron")
	cron.Use(handlerWrapper(app, middleware.CronAuthentication))
	cron.GET("/generate", handlerWrapper(app, api.CronGenerate))

	admin := s.ginEngine.Group("/api/admin")
	admin.Use(handlerWrapper(app, middleware.AdminAuthentication))

	admin.GET("/generate", handlerWrapper(app, api.ListGenerationStyles))
	admin.POST("/generate", handlerWrapper(app, api.Generate))
	admin.POST("/generate/preview", handlerWrapper(app, api.PreviewGeneration))

	admin.GET("/styles", handlerWrapper(app, api.ListStyles))
	admin.POST("/styles", handlerWrapper(app, api.CreateStyle))
	admin.PATCH("/styles/:id", handlerWrapper(app, api.UpdateStyle))
	admin.DELETE("/styles/:id", handlerWrapper(app, api.DeleteStyle))
	admin.POST("/styles/:id/reference-images", handlerWrapper(app, api.UploadReferenceImage))
	admin.DELETE("/styles/:id/reference-images", handlerWrapper(app, api.RemoveReferenceImage))

	admin.GET("/settings", handlerWrapper(app, api.GetSettings))
	admin.PUT("/settings", handlerWrapper(app, api.PutSetting))
	admin.GET("/settings/base-prompt", handlerWrapper(app, api.GetBasePrompt))

	admin.GET("/artworks", handlerWrapper(app, api.ListArtworks))
	admin.POST("/artworks", handlerWrapper(app, api.CreateArtwork))
	admin.PATCH("/artworks/:id", handlerWrapper(app, api.UpdateArtwork))
	admin.POST("/artworks/:id/publish", handlerWrapper(app, api.PublishArtwork))
	admin.POST("/artworks/:id/reject", handlerWrapper(app, api.RejectArtwork))

	admin.GET("/print-products", handlerWrapper(app, api.ListPrintProducts))
	admin.POST("/print-products", handlerWrapper(app, api.CreatePrintProduct))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
