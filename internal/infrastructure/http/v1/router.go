// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/documents/reception"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/http/v1/handlers"
	"backoffice/internal/infrastructure/http/v1/middleware"
	"backoffice/internal/infrastructure/metrics"
	"backoffice/pkg/logger"
)

// RouterConfig holds the services exposed over HTTP.
type RouterConfig struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// Storage names the backend reported by /health.
	Storage string

	// DB is pinged by /health/ready; nil for the in-memory store.
	DB handlers.Pinger

	Orders     *order.Service
	Invoices   *invoice.Service
	Returns    *client_return.Service
	Receptions *reception.Service
	Inventory  *inventory.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	health := handlers.NewHealthHandler(cfg.Storage, cfg.DB)
	router.GET("/health", health.Live)
	router.GET("/health/ready", health.Ready)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.UserContext())

	base := handlers.NewBaseHandler(cfg.Metrics)
	registerOrderRoutes(v1, handlers.NewOrderHandler(base, cfg.Orders, cfg.Invoices))
	registerInvoiceRoutes(v1, handlers.NewInvoiceHandler(base, cfg.Invoices))
	registerReturnRoutes(v1, handlers.NewReturnHandler(base, cfg.Returns))
	registerReceptionRoutes(v1, handlers.NewReceptionHandler(base, cfg.Receptions))

	inv := handlers.NewInventoryHandler(base, cfg.Inventory)
	v1.GET("/inventory/:productId", inv.Availability)
	v1.POST("/inventory/:productId/restock", inv.Restock)

	return router
}

func registerOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.Get)
	orders.POST("/:id/status", h.Transition)
	orders.POST("/:id/dispatch", h.Dispatch)
	orders.POST("/:id/deliver", h.Deliver)
	orders.POST("/:id/invoice", h.Invoice)

	rg.POST("/order-items/:id/pick", h.PickItem)
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *handlers.InvoiceHandler) {
	invoices := rg.Group("/invoices")
	invoices.POST("", h.Create)
	invoices.GET("", h.ListInvoices)
	invoices.GET("/:id", h.Get)
	invoices.POST("/:id/authorize", h.Authorize)
}

func registerReturnRoutes(rg *gin.RouterGroup, h *handlers.ReturnHandler) {
	returns := rg.Group("/returns")
	returns.POST("", h.Create)
	returns.GET("", h.ListReturns)
	returns.GET("/:id", h.Get)
	returns.POST("/:id/approve", h.Approve)
	returns.POST("/:id/reject", h.Reject)

	rg.GET("/credit-notes/:id", h.CreditNote)
}

func registerReceptionRoutes(rg *gin.RouterGroup, h *handlers.ReceptionHandler) {
	receptions := rg.Group("/receptions")
	receptions.POST("", h.Create)
	receptions.GET("/:id", h.Get)
	receptions.POST("/:id/approve", h.Approve)
}
