package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration under a versioned prefix. Public
// registrars skip the protected middleware chain.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	public     []RouteRegistrar
	protected  []RouteRegistrar
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
	}
}

// Use appends middleware applied to protected routes only
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// RegisterPublic adds a registrar mounted without the protected middleware
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar mounted behind the protected middleware
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	guarded := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(guarded)
	}
}
