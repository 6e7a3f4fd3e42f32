package controllers

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetProducts(ctx *gin.Context) {
	products, err := h.Catalog.ListActive(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": len(products), "data": products})
}

func (h *Handlers) GetProduct(ctx *gin.Context) {
	id, ok := h.parseID(ctx, "id", "product")
	if !ok {
		return
	}

	product, err := h.Catalog.Get(ctx.Request.Context(), id)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, product)
}

func (h *Handlers) GetOrisPricing(ctx *gin.Context) {
	product, err := h.Catalog.Pricing(ctx.Request.Context(), services.DefaultProductName)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, gin.H{
		"product":      product.Name,
		"description":  product.Description,
		"pricingTiers": product.PricingTiers,
		"stock":        product.Stock,
	})
}

func (h *Handlers) CreateProduct(ctx *gin.Context) {
	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	product, err := h.Catalog.Create(ctx.Request.Context(), input)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Product created successfully", "data": product})
}

func (h *Handlers) UpdateProduct(ctx *gin.Context) {
	id, ok := h.parseID(ctx, "id", "product")
	if !ok {
		return
	}

	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	product, err := h.Catalog.Update(ctx.Request.Context(), id, input)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product updated successfully", "data": product})
}
