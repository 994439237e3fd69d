package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/application/access"
	domain "gatekeeper/internal/domain/access"
	"gatekeeper/internal/infrastructure/config"
	"gatekeeper/internal/interfaces/http/handlers"
	"gatekeeper/internal/interfaces/http/middleware"
	"gatekeeper/internal/shared/logger"
)

// Router wires handlers and middleware onto the gin engine.
type Router struct {
	engine   *gin.Engine
	config   *config.Config
	logger   logger.Interface
	service  *access.Service
	resolver *access.Resolver
	catalog  *access.Catalog
}

func NewRouter(
	service *access.Service,
	resolver *access.Resolver,
	catalog *access.Catalog,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	engine := gin.New()

	return &Router{
		engine:   engine,
		config:   cfg,
		logger:   log,
		service:  service,
		resolver: resolver,
		catalog:  catalog,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accessHandler := handlers.NewAccessHandler(r.service, r.resolver)
	catalogHandler := handlers.NewCatalogHandler(r.catalog)
	guard := middleware.NewPermissionMiddleware(r.resolver, r.logger)

	api := r.engine.Group("/api/v1")
	api.Use(middleware.Identity())

	// Assignment mutations are scoped to an org and require the caller to
	// hold access.manage there.
	orgs := api.Group("/orgs/:org_id")
	orgs.Use(guard.RequirePermission("access.manage", domain.ScopeOrg, "org_id"))
	{
		orgs.POST("/assignments", accessHandler.AssignRole)
		orgs.DELETE("/assignments", accessHandler.RemoveRole)
		orgs.POST("/denies", accessHandler.AssignDeny)
		orgs.DELETE("/denies", accessHandler.RemoveDeny)
	}

	users := api.Group("/users")
	{
		users.GET("/:id/permissions", accessHandler.ListEffectivePermissions)
		users.GET("/:id/permissions/check", accessHandler.CheckPermission)
	}

	// Catalog administration is reserved for the platform operator plane.
	catalog := api.Group("/catalog")
	{
		catalog.POST("/permissions", catalogHandler.RegisterPermission)
		catalog.POST("/roles", catalogHandler.RegisterRole)
		catalog.GET("/roles/resolve", catalogHandler.ResolveRole)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
