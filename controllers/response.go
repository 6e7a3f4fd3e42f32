package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

const msgSomethingWentWrong = "Something went wrong!"

// Handlers holds the services every controller works through.
type Handlers struct {
	Auth         *services.AuthService
	Catalog      *services.CatalogService
	Orders       *services.OrderService
	SimpleOrders *services.SimpleOrderService
	Reports      *services.ReportingService
	Log          *logger.Logger
	// Development adds raw error details to error responses.
	Development bool
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	data["success"] = true
	ctx.JSON(status, data)
}

func sendData(ctx *gin.Context, status int, data any) {
	sendJSONResponse(ctx, status, gin.H{"data": data})
}

func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindInvalidTier, services.KindInsufficientStock:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) sendErrorResponse(ctx *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if h.Development && err != nil {
		body["error"] = err.Error()
	}
	ctx.JSON(status, body)
}

// respondWithError picks the status code from the error kind.
func (h *Handlers) respondWithError(ctx *gin.Context, err error) {
	status := statusForKind(services.KindOf(err))
	message := msgSomethingWentWrong
	var serviceErr *services.Error
	if errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}
	if status == http.StatusInternalServerError {
		h.Log.Error("Request failed", "path", ctx.Request.URL.Path, "error", err)
	}
	h.sendErrorResponse(ctx, status, message, err)
}

func (h *Handlers) invalidBody(ctx *gin.Context, err error) {
	h.sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body", err)
}

func (h *Handlers) parseID(ctx *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		h.sendErrorResponse(ctx, http.StatusBadRequest, "Invalid "+label+" ID", err)
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts YYYY-MM-DD or RFC 3339. A bare date used as an upper
// bound covers the whole day.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return nil, services.ValidationError("Invalid date: %s", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseAmount(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, services.ValidationError("Invalid amount: %s", value)
	}
	return &amount, nil
}

// dateRange reads startDate and endDate query parameters.
func dateRange(ctx *gin.Context) (*time.Time, *time.Time, error) {
	from, err := parseDate(ctx.Query("startDate"), false)
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDate(ctx.Query("endDate"), true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
