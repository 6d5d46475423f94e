package routes

import (
	"github.com/festora/festora-api/controllers"
	"github.com/festora/festora-api/middlewares"
	"github.com/gin-gonic/gin"
)

func EventRoutes(server *gin.Engine) {
	server.GET("/api/events", controllers.GetEvents)
	server.GET("/api/events/:id", controllers.GetEvent)
	server.GET("/api/events/:id/stalls", controllers.GetEventStalls)

	manage := server.Group("/api", middlewares.RequireAuth(), middlewares.RequireRole("admin", "organizer"))
	{
		manage.POST("/events", controllers.CreateEvent)
		manage.POST("/stalls", controllers.CreateStall)
	}

	// Content approval stays admin-only.
	server.PATCH("/api/events/:id/approve", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.ApproveEvent)
}
