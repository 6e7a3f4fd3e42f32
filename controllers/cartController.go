package controllers

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

type calculateRequest struct {
	Items []services.LineItem `json:"items"`
}

// CalculateCart prices an arbitrary list of lines with the order delivery
// policy. Nothing is stored.
func (h *Handlers) CalculateCart(ctx *gin.Context) {
	var request calculateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	totals, err := h.Orders.Calculate(request.Items)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, totals)
}

func (h *Handlers) AddToCart(ctx *gin.Context) {
	var item services.OrderItemInput
	if err := ctx.ShouldBindJSON(&item); err != nil {
		h.invalidBody(ctx, err)
		return
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	line, err := h.Orders.Quote(ctx.Request.Context(), item)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Item added to cart", "data": line})
}
