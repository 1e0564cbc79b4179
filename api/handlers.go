package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securedesk/policysearch/config"
	"github.com/securedesk/policysearch/internal/cache"
	"github.com/securedesk/policysearch/internal/chat"
	"github.com/securedesk/policysearch/internal/engine"
	"github.com/securedesk/policysearch/internal/metrics"
	"github.com/securedesk/policysearch/store"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

// API holds dependencies for API handlers: the search engine, the document
// store, the optional query cache, and the chat service.
type API struct {
	engine    *engine.Engine
	store     store.Store
	cache     *cache.QueryCache
	chat      *chat.Service
	metrics   *metrics.Metrics
	searchCfg config.SearchConfig
}

// NewAPI creates a new API handler structure.
func NewAPI(eng *engine.Engine, docStore store.Store, queryCache *cache.QueryCache, chatService *chat.Service, m *metrics.Metrics, searchCfg config.SearchConfig) *API {
	return &API{
		engine:    eng,
		store:     docStore,
		cache:     queryCache,
		chat:      chatService,
		metrics:   m,
		searchCfg: searchCfg,
	}
}

// SetupRoutes defines all the API routes.
func (api *API) SetupRoutes(router *gin.Engine) {
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))
	if api.metrics != nil {
		router.Use(MetricsMiddleware(api.metrics))
		router.GET("/metrics", gin.WrapH(api.metrics.Handler()))
	}

	router.GET("/health", api.HealthCheckHandler)

	apiRoutes := router.Group("/api")
	{
		docRoutes := apiRoutes.Group("/documents")
		{
			docRoutes.GET("/search", api.SearchHandler)
			docRoutes.GET("", api.ListDocumentsHandler)
			docRoutes.POST("", api.CreateDocumentHandler)
			docRoutes.GET("/:id", api.GetDocumentHandler)
			docRoutes.PUT("/:id", api.UpdateDocumentHandler)
			docRoutes.DELETE("/:id", api.DeleteDocumentHandler)
		}

		apiRoutes.POST("/chat", api.ChatHandler)
		apiRoutes.GET("/stats", api.StatsHandler)
	}
}

// HealthCheckHandler responds to health check requests.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatsHandler returns index statistics for the published snapshot.
func (api *API) StatsHandler(c *gin.Context) {
	stats := api.engine.Stats()
	c.JSON(http.StatusOK, gin.H{
		"documents":       stats.Documents,
		"vocabulary_size": stats.VocabularySize,
	})
}
