package transport

import (
	"net/http"
	"time"

	"foodhub-be/internal/logger"
	"foodhub-be/internal/metrics"
	"foodhub-be/internal/middleware"
	"foodhub-be/internal/visit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Reports        *ReportHandler
	Payments       *PaymentHandler
	Catalog        *CatalogHandler
	Orders         *OrderHandler
	Metrics        *metrics.Metrics
	Visits         visit.Store
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestID())
	router.Use(logger.Logging())
	router.Use(corsMiddleware(deps.AllowedOrigins))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.RateLimit())
	if deps.Visits != nil {
		router.Use(visitCounter(deps.Visits))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	deps.Reports.Register(router.Group("/api/reports"))
	deps.Payments.Register(router.Group("/api/payment"))
	deps.Catalog.Register(router.Group("/api/food"))
	deps.Orders.Register(router.Group("/api/order"))

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Device-ID"}
	return cors.New(cfg)
}

// visitCounter bumps the daily visitor counter for storefront traffic.
// Dashboard and infrastructure routes are not visits.
func visitCounter(store visit.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		isList := c.Request.Method == http.MethodGet && path == "/api/food/list"
		isSearch := c.Request.Method == http.MethodPost && path == "/api/food/search"
		if isList || isSearch {
			// best effort only
			_ = store.RecordVisit(c.Request.Context(), time.Now().UTC())
		}
		c.Next()
	}
}
