package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	products := api.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/oris/pricing", h.GetOrisPricing)
		products.GET("/:id", h.GetProduct)
		products.POST("", guards.Auth, guards.Admin, h.CreateProduct)
		products.PUT("/:id", guards.Auth, guards.Admin, h.UpdateProduct)
	}
}
