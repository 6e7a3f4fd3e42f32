package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func SimpleOrderRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	simple := api.Group("/simple-orders")
	{
		simple.POST("/submit", guards.SubmitLimit, h.SubmitSimpleOrder)
		simple.GET("/status/:orderId", h.GetSimpleOrderStatus)
		simple.GET("/all", guards.Auth, guards.Admin, h.GetAllSimpleOrders)
	}
}
