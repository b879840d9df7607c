package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router wires up.
type Handlers struct {
	Registry        *handlers.RegistryHandler
	Classifications *handlers.ClassificationHandler
	Sessions        *handlers.SessionHandler
	Allocations     *handlers.AllocationHandler
	Entries         *handlers.EntryHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/plants", h.Registry.CreatePlant)
	api.GET("/plants", h.Registry.ListPlants)
	api.GET("/plants/:id", h.Registry.GetPlant)
	api.DELETE("/plants/:id", h.Registry.DeletePlant)
	api.POST("/plants/:id/classifications", h.Classifications.Create)
	api.GET("/plants/:id/classifications", h.Classifications.ListByPlant)
	api.GET("/plants/:id/classify", h.Classifications.Resolve)

	api.POST("/customers", h.Registry.CreateCustomer)
	api.GET("/customers", h.Registry.ListCustomers)
	api.GET("/customers/:id", h.Registry.GetCustomer)
	api.DELETE("/customers/:id", h.Registry.DeleteCustomer)

	api.GET("/classifications/:id", h.Classifications.Get)
	api.PATCH("/classifications/:id", h.Classifications.Update)
	api.DELETE("/classifications/:id", h.Classifications.Delete)

	api.POST("/sessions", h.Sessions.Create)
	api.GET("/sessions", h.Sessions.List)
	api.GET("/sessions/dates", h.Sessions.Dates)
	api.GET("/sessions/:id", h.Sessions.Get)
	api.PATCH("/sessions/:id", h.Sessions.Update)
	api.DELETE("/sessions/:id", h.Sessions.Delete)
	api.GET("/sessions/:id/reconciliation", h.Sessions.Reconcile)

	api.POST("/sessions/:id/allocations", h.Allocations.Create)
	api.GET("/sessions/:id/allocations", h.Allocations.ListBySession)
	api.POST("/sessions/:id/refresh-counts", h.Allocations.RefreshCounts)
	api.POST("/sessions/:id/reset-counts", h.Allocations.ResetCounts)

	api.GET("/allocations/:id", h.Allocations.Get)
	api.PATCH("/allocations/:id", h.Allocations.Update)
	api.DELETE("/allocations/:id", h.Allocations.Delete)
	api.DELETE("/allocations/:id/entries", h.Allocations.PurgeEntries)

	api.POST("/entries/evaluate", h.Entries.Evaluate)
	api.POST("/entries", h.Entries.Commit)
	api.POST("/entries/transfer", h.Entries.Transfer)
	api.GET("/sessions/:id/entries", h.Entries.ListBySession)
	api.GET("/entries/:id", h.Entries.Get)
	api.PATCH("/entries/:id", h.Entries.Update)
	api.DELETE("/entries/:id", h.Entries.Delete)
	api.GET("/entries/:id/audit", h.Entries.AuditTrail)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
