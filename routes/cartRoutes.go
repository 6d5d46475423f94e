package routes

import (
	"github.com/festora/festora-api/controllers"
	"github.com/festora/festora-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	server.POST("/api/cart-token", controllers.CreateCartToken)

	cart := server.Group("/api/cart", middlewares.CartIdentity())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddCartItem)
		cart.PATCH("/:id", controllers.UpdateCartItem)
		cart.DELETE("/:id", controllers.DeleteCartItem)
	}
}
