package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	orders := api.Group("/orders", guards.Auth)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/my-orders", h.GetMyOrders)
		orders.GET("/:id", h.GetOrder)
	}
}
