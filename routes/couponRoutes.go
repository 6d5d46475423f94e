package routes

import (
	"github.com/festora/festora-api/controllers"
	"github.com/festora/festora-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CouponRoutes(server *gin.Engine) {
	server.POST("/api/validate-coupon", controllers.ValidateCoupon)

	admin := server.Group("/api/coupons", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateCoupon)
		admin.PATCH("/:id/deactivate", controllers.DeactivateCoupon)
	}
}
