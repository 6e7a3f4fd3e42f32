package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status         string `json:"status"`
	DeliveryStatus string `json:"deliveryStatus"`
}

type bulkStatusRequest struct {
	OrderIDs       []uint `json:"orderIds"`
	Status         string `json:"status"`
	DeliveryStatus string `json:"deliveryStatus"`
}

type stockRequest struct {
	Current *int `json:"current"`
	Minimum *int `json:"minimum"`
}

type bulkStockRequest struct {
	Updates []services.StockUpdate `json:"updates"`
}

func (h *Handlers) GetDashboard(ctx *gin.Context) {
	dashboard, err := h.Reports.Dashboard(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, dashboard)
}

func (h *Handlers) GetAnalytics(ctx *gin.Context) {
	from, to, err := dateRange(ctx)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	analytics, err := h.Reports.Analytics(ctx.Request.Context(), from, to)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, analytics)
}

func (h *Handlers) GetAllOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	orders, pagination, err := h.Reports.ListOrders(ctx.Request.Context(), services.OrderQuery{
		Status:        ctx.Query("status"),
		PaymentMethod: ctx.Query("paymentMethod"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"data": orders, "pagination": pagination})
}

func (h *Handlers) SearchOrders(ctx *gin.Context) {
	from, to, err := dateRange(ctx)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	minAmount, err := parseAmount(ctx.Query("minAmount"))
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	maxAmount, err := parseAmount(ctx.Query("maxAmount"))
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	orders, err := h.Reports.Search(ctx.Request.Context(), services.SearchQuery{
		Query:         ctx.Query("query"),
		Status:        ctx.Query("status"),
		PaymentMethod: ctx.Query("paymentMethod"),
		From:          from,
		To:            to,
		MinAmount:     minAmount,
		MaxAmount:     maxAmount,
	})
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"count": len(orders), "data": orders})
}

func exportQuery(ctx *gin.Context) (services.ExportQuery, error) {
	from, to, err := dateRange(ctx)
	if err != nil {
		return services.ExportQuery{}, err
	}
	return services.ExportQuery{From: from, To: to, Status: ctx.Query("status")}, nil
}

// ExportOrders returns rows as JSON, or as a CSV download with format=csv.
func (h *Handlers) ExportOrders(ctx *gin.Context) {
	query, err := exportQuery(ctx)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	rows, err := h.Reports.Export(ctx.Request.Context(), query)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	if ctx.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := services.WriteCSV(&buf, rows); err != nil {
			h.respondWithError(ctx, services.InternalError("Error exporting orders", err))
			return
		}
		filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102"))
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Exported %d orders", len(rows)),
		"data":    rows,
	})
}

func (h *Handlers) ArchiveOrderExport(ctx *gin.Context) {
	query, err := exportQuery(ctx)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	location, count, err := h.Reports.ArchiveExport(ctx.Request.Context(), query)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Archived %d orders", count),
		"data":    gin.H{"location": location, "count": count},
	})
}

func (h *Handlers) UpdateOrderStatus(ctx *gin.Context) {
	id, ok := h.parseID(ctx, "id", "order")
	if !ok {
		return
	}

	var request statusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	order, err := h.Orders.UpdateStatus(ctx.Request.Context(), id, request.Status, request.DeliveryStatus)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully", "data": order})
}

func (h *Handlers) BulkUpdateOrderStatus(ctx *gin.Context) {
	var request bulkStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	modified, err := h.Orders.BulkUpdateStatus(ctx.Request.Context(), request.OrderIDs, request.Status, request.DeliveryStatus)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Updated %d orders successfully", modified),
		"data":    gin.H{"modifiedCount": modified},
	})
}

func (h *Handlers) GetAdminProducts(ctx *gin.Context) {
	products, err := h.Catalog.ListAll(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, products)
}

func (h *Handlers) UpdateProductStock(ctx *gin.Context) {
	id, ok := h.parseID(ctx, "id", "product")
	if !ok {
		return
	}

	var request stockRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	product, err := h.Catalog.UpdateStock(ctx.Request.Context(), id, request.Current, request.Minimum)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product stock updated successfully", "data": product})
}

func (h *Handlers) BulkUpdateStock(ctx *gin.Context) {
	var request bulkStockRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	results, err := h.Catalog.BulkUpdateStock(ctx.Request.Context(), request.Updates)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Updated stock for %d products", len(results)),
		"data":    results,
	})
}

func (h *Handlers) GetCustomers(ctx *gin.Context) {
	customers, err := h.Reports.Customers(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, customers)
}

func (h *Handlers) GetInventoryAlerts(ctx *gin.Context) {
	alerts, err := h.Reports.InventoryAlerts(ctx.Request.Context())
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, alerts)
}
