package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/woodnest/woodnest/internal/http/handlers/shared"
	"github.com/woodnest/woodnest/internal/http/response"
	"github.com/woodnest/woodnest/internal/repository"
	"github.com/woodnest/woodnest/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

// UpdatePaymentStatusRequest 更新支付状态请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
	PaymentIntent string `json:"paymentIntent"`
}

// AddOrderNoteRequest 追加订单备注请求
type AddOrderNoteRequest struct {
	Message string `json:"message" binding:"required"`
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid created_from", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid created_to", err)
		return
	}
	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        userID,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("paymentStatus")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(orderID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 管理端更新订单状态
// 任意状态到任意状态；即使目标为 cancelled 也不回补库存。
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(orderID, req.Status, req.Message, adminID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_status_updated",
		"order_id", orderID,
		"status", req.Status,
		"admin_id", adminID,
	)
	response.SuccessWithMessage(c, "order status updated", order)
}

// AdminUpdatePaymentStatus 管理端更新支付状态
func (h *Handler) AdminUpdatePaymentStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	order, err := h.OrderService.UpdatePaymentStatus(orderID, req.PaymentStatus, req.PaymentIntent, adminID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	requestLog(c).Infow("admin_payment_status_updated",
		"order_id", orderID,
		"payment_status", req.PaymentStatus,
		"admin_id", adminID,
	)
	response.SuccessWithMessage(c, "payment status updated", order)
}

// AdminAddOrderNote 管理端追加订单备注
func (h *Handler) AdminAddOrderNote(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req AddOrderNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	note, err := h.OrderService.AddNote(orderID, req.Message, adminID)
	if err != nil {
		respondAdminOrderError(c, err)
		return
	}
	response.Created(c, note)
}

func orderIDParam(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, http.StatusBadRequest, "invalid order id", err)
		return 0, false
	}
	return uint(orderID), true
}

func respondAdminOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, http.StatusBadRequest, "invalid order status", nil)
	case errors.Is(err, service.ErrPaymentStatusInvalid):
		respondError(c, http.StatusBadRequest, "invalid payment status", nil)
	case errors.Is(err, service.ErrNoteMessageRequired):
		respondError(c, http.StatusBadRequest, "note message is required", nil)
	case errors.Is(err, service.ErrOrderFetchFailed):
		respondError(c, http.StatusInternalServerError, "failed to load order", err)
	default:
		respondError(c, http.StatusInternalServerError, "failed to update order", err)
	}
}
