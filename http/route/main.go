package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pastvault/asset-service/http/controller"
	middlewares "github.com/pastvault/asset-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/images")
	{
		apiRoutes.GET("/healthz", ctrl.HealthCheck)

		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.GET("/stats/me", ctrl.GetMyAssetStats)

		apiRoutes.POST("", ctrl.UploadAsset)
		apiRoutes.GET("", ctrl.ListAssets)

		apiRoutes.GET("/:id", ctrl.GetAssetByID)
		apiRoutes.PUT("/:id", ctrl.UpdateAsset)
		apiRoutes.DELETE("/:id", ctrl.DeleteAsset)

		apiRoutes.POST("/:id/view", ctrl.TrackView)
		apiRoutes.POST("/:id/download", ctrl.TrackDownload)
	}

	return r
}
