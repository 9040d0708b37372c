// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/auth"
	"claimsdesk/internal/domain/claimtypes"
	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/domain/insurerdocs"
	"claimsdesk/internal/domain/insurers"
	"claimsdesk/internal/domain/users"
	"claimsdesk/internal/infrastructure/http/v1/handlers"
	"claimsdesk/internal/infrastructure/http/v1/middleware"
	"claimsdesk/internal/infrastructure/storage/postgres"
	"claimsdesk/pkg/logger"
)

// RouterConfig holds everything the router wires together. Services are
// built once at startup and shared across requests.
type RouterConfig struct {
	// Pool is the database connection, used by health checks.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	JWTService *auth.JWTService

	Users       *users.Service
	ClaimTypes  *claimtypes.Service
	Insurers    *insurers.Service
	Documents   *documents.Service
	InsurerDocs *insurerdocs.Service
	Collages    *collages.Service
	Exports     *exports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Gzip())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(cfg.Users, cfg.JWTService)
	usersHandler := handlers.NewUsersHandler(cfg.Users)
	catalogHandler := handlers.NewCatalogHandler(cfg.ClaimTypes, cfg.Insurers, cfg.Documents, cfg.Exports)
	insurerDocsHandler := handlers.NewInsurerDocsHandler(cfg.InsurerDocs)
	collagesHandler := handlers.NewCollagesHandler(cfg.Collages)
	exportsHandler := handlers.NewExportsHandler(cfg.Exports)

	adminOnly := middleware.RequireRole(users.RoleAdmin)

	// API v1
	api := router.Group("/api/v1")
	{
		// Public endpoints
		api.POST("/auth/login", authHandler.Login)

		// Everything below requires a valid access token
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)

		// User administration
		usersGroup := protected.Group("/users", adminOnly)
		{
			usersGroup.GET("", usersHandler.List)
			usersGroup.GET("/:id", usersHandler.Get)
			usersGroup.POST("", usersHandler.Create)
			usersGroup.PUT("/:id", usersHandler.Update)
			usersGroup.DELETE("/:id", usersHandler.Delete)
			usersGroup.POST("/:id/temporary-password", usersHandler.TemporaryPassword)
		}

		// Lookup catalogs
		protected.GET("/claim-types", catalogHandler.ListClaimTypes)
		protected.GET("/export-document-types", catalogHandler.ListExportTypes)

		documentsGroup := protected.Group("/probatory-documents")
		{
			documentsGroup.GET("", catalogHandler.ListDocuments)
			documentsGroup.GET("/:id", catalogHandler.GetDocument)
			documentsGroup.POST("", adminOnly, catalogHandler.CreateDocument)
			documentsGroup.PUT("/:id", adminOnly, catalogHandler.UpdateDocument)
			documentsGroup.DELETE("/:id", adminOnly, catalogHandler.DeleteDocument)
		}

		// Insurance companies and their per-claim-type layouts
		insurersGroup := protected.Group("/insurance-companies")
		{
			insurersGroup.GET("", catalogHandler.ListInsurers)
			insurersGroup.GET("/:id", catalogHandler.GetInsurer)
			insurersGroup.POST("", adminOnly, catalogHandler.CreateInsurer)
			insurersGroup.PUT("/:id", adminOnly, catalogHandler.UpdateInsurer)
			insurersGroup.DELETE("/:id", adminOnly, catalogHandler.DeleteInsurer)

			scoped := insurersGroup.Group("/:id/claim-types/:claimTypeID")
			scoped.GET("/documents", insurerDocsHandler.List)
			scoped.PUT("/documents", adminOnly, insurerDocsHandler.Reconcile)
			scoped.GET("/collages", collagesHandler.ListByScope)
			scoped.GET("/export-documents", exportsHandler.List)
			scoped.PUT("/export-documents", adminOnly, exportsHandler.Reconcile)
		}

		collagesGroup := protected.Group("/collages")
		{
			collagesGroup.GET("", collagesHandler.List)
			collagesGroup.GET("/:id", collagesHandler.Get)
			collagesGroup.POST("", adminOnly, collagesHandler.Create)
			collagesGroup.PUT("/:id", adminOnly, collagesHandler.Update)
			collagesGroup.DELETE("/:id", adminOnly, collagesHandler.Delete)
		}
	}

	return router
}
