package routes

import (
	"github.com/Kariqs/puffvibe-api/controllers"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(api *gin.RouterGroup, h *controllers.Handlers, guards Guards) {
	admin := api.Group("/admin", guards.Auth, guards.Admin)
	{
		admin.GET("/dashboard", h.GetDashboard)
		admin.GET("/analytics", h.GetAnalytics)

		admin.GET("/orders", h.GetAllOrders)
		admin.GET("/orders/search", h.SearchOrders)
		admin.GET("/orders/export", h.ExportOrders)
		admin.POST("/orders/export/archive", h.ArchiveOrderExport)
		admin.PUT("/orders/bulk-status", h.BulkUpdateOrderStatus)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

		admin.GET("/products", h.GetAdminProducts)
		admin.PUT("/products/:id/stock", h.UpdateProductStock)

		admin.GET("/customers", h.GetCustomers)

		admin.GET("/inventory/alerts", h.GetInventoryAlerts)
		admin.PUT("/inventory/bulk-update", h.BulkUpdateStock)
	}
}
