package controllers

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/middlewares"
	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) CreateOrder(ctx *gin.Context) {
	principal, _ := middlewares.CurrentUser(ctx)

	var input services.PlaceOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	order, err := h.Orders.Place(ctx.Request.Context(), principal.UserID, input)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Order created successfully", "data": order})
}

func (h *Handlers) GetMyOrders(ctx *gin.Context) {
	principal, _ := middlewares.CurrentUser(ctx)

	orders, err := h.Orders.MyOrders(ctx.Request.Context(), principal.UserID)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": len(orders), "data": orders})
}

func (h *Handlers) GetOrder(ctx *gin.Context) {
	principal, _ := middlewares.CurrentUser(ctx)
	id, ok := h.parseID(ctx, "id", "order")
	if !ok {
		return
	}

	order, err := h.Orders.Get(ctx.Request.Context(), id, principal.Viewer())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, order)
}
