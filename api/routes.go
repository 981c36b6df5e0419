package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handlers "promptsmith_server/internal/api"
	"promptsmith_server/internal/api/middleware"
)

type RouterConfig struct {
	ServiceName    string
	AppEnv         string
	AllowedOrigins []string
	TracingEnabled bool
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(cfg RouterConfig, h *handlers.APIHandler, logger *zap.Logger) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		router.Use(middleware.Trace(cfg.ServiceName))
		router.Use(middleware.TraceContext())
	}
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/status", h.Status)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api", middleware.UserID())

	// --- Prompt engineering ---
	prompts := apiGroup.Group("/prompts")
	{
		prompts.POST("/generate", h.GeneratePrompt)
		prompts.POST("/refine", h.RefineInput)
	}

	// --- Vault (history) ---
	vault := apiGroup.Group("/vault")
	{
		vault.GET("", h.ListVault)
		vault.DELETE("", h.ClearVault)
		vault.GET("/:id", h.GetVaultItem)
		vault.POST("/:id/freeze", h.ToggleFreeze)
		vault.DELETE("/:id", h.DeleteVaultItem)
	}

	// --- User templates ---
	templates := apiGroup.Group("/templates")
	{
		templates.GET("", h.ListTemplates)
		templates.POST("", h.CreateTemplate)
		templates.DELETE("/:id", h.DeleteTemplate)
	}

	// --- Marketplace ---
	apiGroup.GET("/marketplace", h.ListMarketplace)
	apiGroup.POST("/marketplace/:id/rating", h.RateTemplate)

	// --- Settings, tools, deploy ---
	apiGroup.GET("/settings", h.GetSettings)
	apiGroup.PUT("/settings", h.UpdateSettings)
	apiGroup.GET("/tools", h.ListTools)
	apiGroup.GET("/catalog", h.Catalog)
	apiGroup.POST("/deploy", h.Deploy)
}
