package routes

import (
	"github.com/edushelf/edushelf-catalog/http/controller"
	middlewares "github.com/edushelf/edushelf-catalog/http/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/library")
	{
		// Public catalog surface
		apiRoutes.GET("/resources", ctrl.ListResources)
		apiRoutes.GET("/resources/:id", ctrl.GetResource)
		apiRoutes.POST("/resources/:id/download", ctrl.DownloadResource)
		apiRoutes.GET("/recent", ctrl.GetRecentResources)
		apiRoutes.GET("/stats", ctrl.GetLibraryStats)
		apiRoutes.GET("/taxonomy", ctrl.GetTaxonomy)

		// Admin console surface, gated by the identity provider's session
		adminRoutes := apiRoutes.Group("/admin")
		{
			adminRoutes.Use(middles.AuthMiddleware)

			adminRoutes.POST("/resources", ctrl.CreateResource)
			adminRoutes.PUT("/resources/:id", ctrl.UpdateResource)
			adminRoutes.DELETE("/resources/:id", ctrl.DeleteResource)
		}
	}

	return r
}
