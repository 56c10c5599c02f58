package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/api/handlers"
	"salesloop/crm/internal/api/middleware"
	"salesloop/crm/internal/config"
	"salesloop/crm/internal/services"
	"salesloop/crm/internal/storage"
)

// SetupRouter configures and returns the main Gin engine. taskClient may be
// nil when the API runs without background workers; campaign launches then
// fail with 500 instead of silently dropping work.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient services.TaskEnqueuer) *gin.Engine {
	userService := services.NewUserService(db, cfg)
	leadService := services.NewLeadService(db, cfg)
	recordService := services.NewRecordService(db)
	reconcileService := services.NewReconcileService(cfg, recordService, leadService)
	invoiceService := services.NewInvoiceService(db)
	memberService := services.NewMemberService(db)
	adminService := services.NewAdminService(db)
	dashboardService := services.NewDashboardService(cfg, leadService, rdb)
	campaignService := services.NewCampaignService(leadService, taskClient)

	var uploadStorage storage.IUploadStorage
	if cfg.AwsS3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			config.Logger().WithError(err).Warn("S3 storage unavailable, upload archiving disabled")
		} else {
			uploadStorage = s3Storage
		}
	}

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(cfg, userService)
	leadHandler := handlers.NewLeadHandler(leadService)
	recordHandler := handlers.NewRecordHandler(recordService, reconcileService, uploadStorage)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	memberHandler := handlers.NewMemberHandler(memberService)
	adminHandler := handlers.NewAdminHandler(adminService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Public routes
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	r.POST("/records/upload", recordHandler.Upload)
	r.POST("/records/import", recordHandler.Import)
	r.POST("/records/upload-url", recordHandler.UploadURL)
	r.GET("/records", recordHandler.List)
	r.PUT("/records/:id", recordHandler.Update)
	r.DELETE("/records/:id", recordHandler.Delete)
	r.POST("/records/bulk-delete", recordHandler.BulkDelete)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/invoices", invoiceHandler.Create)
		apiGroup.GET("/invoices", invoiceHandler.List)
		apiGroup.GET("/invoices/:id", invoiceHandler.Get)
		apiGroup.PUT("/invoices/:id", invoiceHandler.Update)
		apiGroup.DELETE("/invoices/:id", invoiceHandler.Delete)

		apiGroup.POST("/admin", adminHandler.Upsert)
		apiGroup.GET("/admin/:email", adminHandler.Get)

		apiGroup.GET("/members", memberHandler.List)
		apiGroup.POST("/members", memberHandler.Create)
		apiGroup.PUT("/members/:id", memberHandler.Update)
		apiGroup.DELETE("/members/:id", memberHandler.Delete)
	}

	// Authenticated routes
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
	{
		authRequired.GET("/leads", leadHandler.List)
		authRequired.POST("/leads", leadHandler.Create)
		authRequired.PUT("/leads/:id", leadHandler.Update)
		authRequired.DELETE("/leads/:id", leadHandler.Delete)
		authRequired.POST("/leads/bulk-delete", leadHandler.BulkDelete)

		authRequired.POST("/records/merge", recordHandler.Merge)

		authRequired.GET("/dashboard/kpis", dashboardHandler.KPIs)

		authRequired.GET("/campaigns/recipients", campaignHandler.Recipients)
		authRequired.POST("/campaigns/email", campaignHandler.SendEmail)
	}

	return r
}
