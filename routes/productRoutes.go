package routes

import (
	"github.com/festora/festora-api/controllers"
	"github.com/festora/festora-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/api/products", controllers.GetProducts)
	server.GET("/api/products/:id", controllers.GetProduct)

	manage := server.Group("/api", middlewares.RequireAuth(), middlewares.RequireRole("admin", "organizer", "vendor"))
	{
		manage.POST("/products", controllers.CreateProduct)
		manage.POST("/products/images", controllers.UploadProductImages)
	}
}
