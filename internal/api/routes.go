package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cvpress/internal/api/middleware"
	"cvpress/internal/config"
	"cvpress/internal/storage"
)

// OwnerUserID 是单账号模式下唯一账号的主键, 启动时播种。
const OwnerUserID uint = 1

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	resumeHandler := NewResumeHandler(
		db, asynqClient, storageClient, redisClient,
		OwnerUserID, cfg.Export.RateLimitPerMinute, cfg.Export.DownloadTTL(),
	)
	templateHandler := NewTemplateHandler(storageClient, asynqClient)
	wsHandler := NewWsHandler(redisClient, logger, OwnerUserID, nil)
	assetHandler := NewAssetHandler(db, storageClient, logger, redisClient, cfg.Clamd.Address, OwnerUserID)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		resumeGroup := v1.Group("/resume")
		{
			resumeGroup.GET("/latest", resumeHandler.GetLatestResume)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.GET("/:id/interchange", resumeHandler.GetInterchange)
			resumeGroup.POST("/:id/export", resumeHandler.ExportResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
			resumeGroup.GET("/:id/preview-link", resumeHandler.GetPreviewLink)
		}
		v1.GET("/resumes", resumeHandler.ListResumes)

		templateGroup := v1.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id/markup", templateHandler.GetTemplateMarkup)
		}

		assetGroup := v1.Group("/assets")
		{
			assetGroup.POST("/upload", assetHandler.UploadAsset)
			assetGroup.GET("", assetHandler.ListAssets)
			assetGroup.GET("/view", assetHandler.GetAssetURL)
			assetGroup.DELETE("", assetHandler.DeleteAsset)
		}

		internalGroup := v1.Group("/internal")
		internalGroup.Use(middleware.InternalSecretMiddleware(cfg.Internal.Secret))
		{
			internalGroup.POST("/templates/:id/preview", templateHandler.EnqueuePreview)
		}
	}
}
