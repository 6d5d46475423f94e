package routes

import (
	"github.com/festora/festora-api/controllers"
	"github.com/festora/festora-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	server.POST("/api/checkout/preview", controllers.PreviewCheckout)

	// Gateway callback authenticates by signature, not session.
	server.POST("/api/payhere/notify", controllers.PayHereNotify)

	orders := server.Group("/api/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.CreateOrder)
		orders.POST("/payhere", controllers.CreatePayHereOrder)
		orders.GET("", controllers.GetOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.GET("/:id/payment", controllers.GetOrderPayment)
	}

	// Fulfillment closes orders out; customers never do.
	server.PATCH("/api/orders/:id/complete",
		middlewares.RequireAuth(), middlewares.RequireRole("admin", "vendor"), controllers.CompleteOrder)
}
