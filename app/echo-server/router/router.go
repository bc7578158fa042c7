package router

import (
	"paperScout/internal/middleware"
	"paperScout/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.GET("", handler.Recommend)
	reco.GET("/debug", handler.DebugRecommend)
	reco.GET("/similar/:paper_id", handler.Similar)
}

func SetInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.POST("/interactions", handler.LogInteraction)
}

func SetModelAdminRoutes(api *echo.Group, handler *rest.ModelAdminHandler) {
	admin := api.Group("/admin/model", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.GET("", handler.ModelInfo)
	admin.POST("/reload", handler.ReloadModel)
}
