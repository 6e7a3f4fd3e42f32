package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	cart := api.Group("/cart")
	{
		cart.POST("/calculate", h.CalculateCart)
		cart.POST("/add", guards.Auth, h.AddToCart)
	}
}
