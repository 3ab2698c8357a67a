package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dukapoint/cloudsales-api/internal/config"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/handler"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/middleware"
	"github.com/dukapoint/cloudsales-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Sale      *handler.SaleHandler
	Payment   *handler.PaymentHandler
	Etims     *handler.EtimsHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	Customer  *handler.CustomerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// The provider settlement callback is unauthenticated because the
		// provider cannot carry our tokens; correlation happens via the
		// checkout request id.
		v1.POST("/pos/mpesa/callback", h.Payment.Callback)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
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

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	pos := protected.Group("/pos")
	{
		pos.POST("/checkout", h.Sale.Checkout)
		pos.POST("/mpesa-payment", h.Payment.Initiate)
		pos.GET("/mpesa-status/:checkout_request_id", h.Payment.Status)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/etims", h.Sale.ReprocessEtims)
	}

	etims := protected.Group("/etims")
	{
		etims.GET("/queue", h.Etims.QueueStats)
		etims.POST("/queue/process", middleware.RequireRole("admin", "manager"), h.Etims.ProcessQueue)
	}

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
	}

	inventory := protected.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.POST("/restock", middleware.RequireRole("admin", "manager"), h.Inventory.Restock)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
	}
}
