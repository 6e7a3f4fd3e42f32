package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetHealth(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":   "PuffVibe API is running",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handlers) GetHome(ctx *gin.Context) {
	message := `Welcome to the PuffVibe API.

AUTH
- POST "/api/auth/register" - Create customer account
- POST "/api/auth/login" - Access account
- GET "/api/auth/me" - Current account

PRODUCTS
- GET "/api/products" - Active products
- GET "/api/products/oris/pricing" - ORIS pricing tiers and stock
- GET "/api/products/:id" - Product by ID

CART AND ORDERS
- POST "/api/cart/calculate" - Price a cart
- POST "/api/orders" - Place an order
- GET "/api/orders/my-orders" - Your orders
- POST "/api/simple-orders/submit" - Quick checkout
- GET "/api/simple-orders/status/:orderId" - Quick checkout status`

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": message})
}
