package controllers

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) SubmitSimpleOrder(ctx *gin.Context) {
	var input services.SimpleOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	order, err := h.SimpleOrders.Submit(ctx.Request.Context(), input)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order received successfully! 🎉",
		"data": gin.H{
			"orderId":           order.OrderID,
			"orderNumber":       order.OrderNumber,
			"estimatedDelivery": services.EstimatedDeliveryLabel,
			"estimatedAt":       order.EstimatedDelivery,
			"customer":          order.CustomerName,
			"subtotal":          order.Subtotal,
			"deliveryFee":       order.DeliveryFee,
			"total":             order.GrandTotal,
			"deliveryLocation":  order.DeliveryLocation,
			"status":            order.Status,
		},
	})
}

func (h *Handlers) GetSimpleOrderStatus(ctx *gin.Context) {
	order, err := h.SimpleOrders.Status(ctx.Request.Context(), ctx.Param("orderId"))
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	sendData(ctx, http.StatusOK, gin.H{
		"orderId":           order.OrderID,
		"status":            order.Status,
		"customerName":      order.CustomerName,
		"deliveryLocation":  order.DeliveryLocation,
		"grandTotal":        order.GrandTotal,
		"estimatedDelivery": order.EstimatedDelivery,
		"createdAt":         order.CreatedAt,
	})
}

func (h *Handlers) GetAllSimpleOrders(ctx *gin.Context) {
	orders, err := h.SimpleOrders.All(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": len(orders), "data": orders})
}
