package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "scan1c/docs" // registers the OpenAPI document with swag
	"scan1c/internal/handler"
	"scan1c/internal/middleware"
)

// Handlers bundles the HTTP handlers. Webhook is nil when the Telegram bot
// is disabled or runs in polling mode.
type Handlers struct {
	Scan       *handler.ScanHandler
	Submission *handler.SubmissionHandler
	Health     *handler.HealthHandler
	Webhook    *handler.WebhookHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	// Contract used by the web app.
	api.POST("/scan", h.Scan.Recognize)

	if h.Webhook != nil {
		api.POST("/webhook/:secret", h.Webhook.Receive)
		api.GET("/set_webhook", h.Webhook.SetWebhook)
	}

	v1 := api.Group("/v1")

	scans := v1.Group("/scans")
	scans.POST("", h.Scan.Create)
	scans.GET("", h.Scan.List)
	scans.GET("/:id", h.Scan.GetByID)
	scans.GET("/:id/download", h.Scan.DownloadURL)
	scans.GET("/:id/export", h.Scan.Export)

	v1.POST("/documents/submit", h.Submission.Submit)

	return r
}
