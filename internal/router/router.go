package router

import (
	"github.com/gin-gonic/gin"

	"urbill/internal/config"
	"urbill/internal/domain"
	"urbill/internal/handler"
	"urbill/internal/middleware"
	"urbill/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	quotationH *handler.QuotationHandler,
	invoiceH *handler.InvoiceHandler,
	settingsH *handler.SettingsHandler,
	statsH *handler.StatsHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT with the admin role
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.RequireRole(domain.RoleAdmin))

	protected.GET("/auth/me", authH.Me)

	// Quotation routes
	quotations := protected.Group("/quotations")
	quotations.POST("", quotationH.Create)
	quotations.GET("", quotationH.List)
	quotations.GET("/:id", quotationH.Get)
	quotations.PUT("/:id", quotationH.Update)
	quotations.PATCH("/:id/status", quotationH.ChangeStatus)
	quotations.DELETE("/:id", quotationH.Delete)
	quotations.POST("/:id/send", quotationH.Send)
	quotations.GET("/:id/pdf", quotationH.DownloadPDF)
	quotations.POST("/:id/convert", invoiceH.CreateFromQuotation)

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.Get)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.PATCH("/:id/status", invoiceH.ChangeStatus)
	invoices.POST("/:id/payments", invoiceH.RecordPayment)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.POST("/:id/send", invoiceH.Send)
	invoices.GET("/:id/pdf", invoiceH.DownloadPDF)

	// Settings, stats, exports
	protected.GET("/settings", settingsH.Get)
	protected.PUT("/settings", settingsH.Update)
	protected.GET("/stats", statsH.GetStats)
	protected.GET("/reports/register", reportH.ExportRegister)
	protected.GET("/service-presets", quotationH.ServicePresets)

	return r
}
