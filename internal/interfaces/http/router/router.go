package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storelink/backend/internal/infrastructure/logger"
	"github.com/storelink/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a set of routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine: middleware, health endpoint, and the
// versioned API group each registrar hangs its routes on.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// New creates a router with the standard middleware chain
func New(log *zap.Logger) *Router {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Router{
		engine:     engine,
		apiVersion: "v1",
	}
}

// Register adds a RouteRegistrar to be wired on Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes and returns the engine
func (r *Router) Setup() *gin.Engine {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}
