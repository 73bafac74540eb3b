package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.POST("/symbols", handler.GenerateSymbol)
		api.GET("/symbols/:symbol", handler.GetSymbolStatus)
		api.POST("/symbols/derivatives", handler.DerivativeSymbol)
		api.POST("/symbols/comics", handler.ComicSymbol)
		api.GET("/registry/stats", handler.RegistryStats)

		api.POST("/assets", handler.CreateAsset)
		api.POST("/assets/batch", handler.CreateAssetsBatch)
		api.GET("/assets", handler.ListAssets)
		api.GET("/assets/:id", handler.GetAsset)

		api.POST("/nomenclature/migrate", handler.MigrateNomenclature)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
