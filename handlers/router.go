package handlers

import (
	"bailbridge-backend/storage"

	"github.com/gin-gonic/gin"
)

// RouterConfig configures NewRouter
type RouterConfig struct {
	Suggester      Suggester
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	// DatasetStore enables the dataset management routes when set together with AdminToken
	DatasetStore storage.Storage
	DatasetKey   string
	AdminToken   string
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(), CORS(cfg.CORSOrigins))

	r.GET("/health", Health)
	r.GET("/bns_sections.csv", ServeSampleDataset)

	suggestionHandler := NewSuggestionHandler(cfg.Suggester)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/ai-suggestion", RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst), suggestionHandler.Suggest)

		if cfg.DatasetStore != nil && cfg.AdminToken != "" {
			datasetHandler := NewDatasetHandler(cfg.DatasetStore, cfg.DatasetKey)
			admin := api.Group("/reference", AdminToken(cfg.AdminToken))
			admin.PUT("/dataset", datasetHandler.UploadDataset)
			admin.GET("/dataset", datasetHandler.DownloadDataset)
		}
	}

	return r
}
