package public

import (
	"net/http"
	"strconv"

	"github.com/woodnest/woodnest/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
	VariantID uint `json:"variantId"`
}

// UpdateCartItemRequest 更新购物车项请求
type UpdateCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// ApplyCouponRequest 应用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetOrCreate(identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 添加购物车项（同商品同规格合并数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.AddItem(identity, req.ProductID, req.Quantity, req.VariantID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 更新购物车项数量（数量 ≤ 0 视为删除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.UpdateItem(identity, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, http.StatusBadRequest, "invalid product id", err)
		return
	}
	cart, err := h.CartService.RemoveItem(identity, uint(productID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// ApplyCoupon 应用优惠券
func (h *Handler) ApplyCoupon(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.ApplyCoupon(identity, req.Code)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMessage(c, "coupon applied", cart)
}
