package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, h *controllers.Handlers) {
	server.GET("/", h.GetHome)
	server.GET("/api/health", h.GetHealth)
}
