package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiendanova/pos-api/internal/config"
	"github.com/tiendanova/pos-api/internal/presentation/http/handler"
	"github.com/tiendanova/pos-api/internal/presentation/http/middleware"
	"github.com/tiendanova/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Session *handler.SessionHandler
	Cart    *handler.CartHandler
	Invoice *handler.InvoiceHandler
	Report  *handler.ReportHandler
	Catalog *handler.CatalogHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Logger     *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Profile)

	// Register sessions
	registerSessionRoutes(protected, h)

	// Cart and checkout
	registerCartRoutes(protected, h)

	// Invoices
	registerInvoiceRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Catalog
	registerCatalogRoutes(protected, h)
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.POST("", h.Session.Open)
		sessions.POST("/close", h.Session.Close)
		sessions.GET("/current", h.Session.Current)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.State)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddLine)
		cart.DELETE("/items/:productId", h.Cart.RemoveLine)
		cart.PATCH("/items/quantity", h.Cart.SetQuantity)
		cart.PATCH("/items/discount", h.Cart.SetDiscount)
		cart.POST("/checkout", h.Cart.Checkout)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/recent", h.Invoice.Recent)
		invoices.GET("/export", h.Invoice.ExportCSV)
		invoices.GET("/editor", h.Invoice.EditorState)
		invoices.GET("/editor/audit", h.Invoice.AuditLog)
		invoices.GET("/:id", h.Invoice.Open)

		// Editing a saved invoice is an administrator action
		editing := invoices.Group("/editor")
		editing.Use(middleware.RequireAdmin())
		{
			editing.POST("/items", h.Invoice.AddLine)
			editing.DELETE("/items", h.Invoice.RemoveLine)
			editing.PATCH("/items/quantity", h.Invoice.SetQuantity)
			editing.PATCH("/items/price", h.Invoice.SetUnitPrice)
			editing.PATCH("/items/discount", h.Invoice.SetDiscount)
			editing.PATCH("/payment", h.Invoice.SetPaymentMethod)
			editing.POST("/save", h.Invoice.Save)
			editing.POST("/void", h.Invoice.Void)
		}
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/closing", h.Report.Closing)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/stores", h.Catalog.ListStores)

	products := protected.Group("/products")
	{
		products.GET("", h.Catalog.ListProducts)
		products.GET("/search", h.Catalog.SearchProducts)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Catalog.ListCustomers)
		customers.POST("", h.Catalog.CreateCustomer)
	}
}
