package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", guards.Auth, h.Me)
	}
}
