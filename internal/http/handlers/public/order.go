package public

import (
	"net/http"
	"strconv"

	handlershared "github.com/woodnest/woodnest/internal/http/handlers/shared"
	"github.com/woodnest/woodnest/internal/http/response"
	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址请求
type AddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country" binding:"required"`
}

// OrderItemRequest 兜底订单项请求（购物车丢失时的恢复载荷）
type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
	VariantID uint `json:"variantId"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	Billing       AddressRequest     `json:"billing" binding:"required"`
	Shipping      AddressRequest     `json:"shipping" binding:"required"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes"`
}

func (r AddressRequest) toModel() models.Address {
	return models.Address{
		FullName:   r.FullName,
		Phone:      r.Phone,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		Region:     r.Region,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	fallback := make([]service.FallbackItem, 0, len(req.Items))
	for _, item := range req.Items {
		fallback = append(fallback, service.FallbackItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		Identity:      identity,
		Billing:       req.Billing.toModel(),
		Shipping:      req.Shipping.toModel(),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		FallbackItems: fallback,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 查询本人订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(identity, page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取本人订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, http.StatusBadRequest, "invalid order id", err)
		return
	}
	order, err := h.OrderService.GetOrder(uint(orderID), identity)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 客户自助取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, http.StatusBadRequest, "invalid order id", err)
		return
	}
	order, err := h.OrderService.CancelOrder(uint(orderID), identity)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.SuccessWithMessage(c, "order cancelled", order)
}
