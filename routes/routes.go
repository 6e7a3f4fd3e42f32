package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

// Guards are the middlewares routes attach per group.
type Guards struct {
	Auth        gin.HandlerFunc
	Admin       gin.HandlerFunc
	SubmitLimit gin.HandlerFunc
}

// RegisterRoutes mounts every API group under /api.
func RegisterRoutes(server *gin.Engine, h *controllers.Handlers, guards Guards) {
	if guards.SubmitLimit == nil {
		guards.SubmitLimit = func(ctx *gin.Context) { ctx.Next() }
	}

	DefaultRoutes(server, h)
	api := server.Group("/api")
	AuthRoutes(api, h, guards)
	ProductRoutes(api, h, guards)
	CartRoutes(api, h, guards)
	OrderRoutes(api, h, guards)
	SimpleOrderRoutes(api, h, guards)
	AdminRoutes(api, h, guards)
}
