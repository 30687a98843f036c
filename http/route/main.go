package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aperturelog/aperture/http/controller"
	middlewares "github.com/aperturelog/aperture/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	apiRoutes := r.Group("/api/v1")
	apiRoutes.Use(middles.CORSMiddleware)
	{
		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/register", ctrl.Register)
			authRoutes.POST("/login", ctrl.Login)
			authRoutes.POST("/logout", middles.AuthMiddleware, ctrl.Logout)
			authRoutes.GET("/me", middles.AuthMiddleware, ctrl.Me)
		}

		photoRoutes := apiRoutes.Group("/photos")
		{
			photoRoutes.GET("/", ctrl.ListPhotos)
			photoRoutes.GET("/favorites", ctrl.ListFavoritePhotos)
			photoRoutes.GET("/:id", ctrl.GetPhoto)
			photoRoutes.POST("/", middles.AuthMiddleware, ctrl.CreatePhoto)
			photoRoutes.PATCH("/:id", middles.AuthMiddleware, ctrl.UpdatePhoto)
			photoRoutes.DELETE("/:id", middles.AuthMiddleware, ctrl.DeletePhoto)
		}

		cityRoutes := apiRoutes.Group("/city-sets")
		{
			cityRoutes.GET("/", ctrl.ListCitySets)
			cityRoutes.GET("/:id", ctrl.GetCitySet)
		}

		postRoutes := apiRoutes.Group("/posts")
		{
			postRoutes.GET("/", ctrl.ListPosts)
			postRoutes.GET("/check-slug/:slug", ctrl.CheckSlug)
			postRoutes.GET("/:slug", ctrl.GetPost)
			postRoutes.POST("/", middles.AuthMiddleware, ctrl.CreatePost)
			postRoutes.PATCH("/:slug", middles.AuthMiddleware, ctrl.UpdatePost)
			postRoutes.DELETE("/:slug", middles.AuthMiddleware, ctrl.DeletePost)
		}

		uploadRoutes := apiRoutes.Group("/uploads")
		uploadRoutes.Use(middles.AuthMiddleware)
		{
			uploadRoutes.POST("/sign", ctrl.SignUpload)
		}

		geocodeRoutes := apiRoutes.Group("/geocode")
		geocodeRoutes.Use(middles.AuthMiddleware)
		{
			geocodeRoutes.GET("/reverse", ctrl.ReverseGeocode)
		}
	}

	return r
}
