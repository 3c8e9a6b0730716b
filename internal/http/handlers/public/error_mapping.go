package public

import (
	"errors"
	"net/http"

	handlershared "github.com/woodnest/woodnest/internal/http/handlers/shared"
	"github.com/woodnest/woodnest/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string, err error) {
	handlershared.RespondError(c, status, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMsg string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		handlershared.RespondErrorWithData(c, http.StatusBadRequest, stockErr.Error(), gin.H{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.status, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackStatus, fallbackMsg, err)
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidIdentity, status: http.StatusBadRequest, msg: "invalid identity"},
	{target: service.ErrInvalidQuantity, status: http.StatusBadRequest, msg: "quantity must be at least 1"},
	{target: service.ErrCartNotFound, status: http.StatusNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, status: http.StatusNotFound, msg: "cart item not found"},
	{target: service.ErrProductNotFound, status: http.StatusNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, status: http.StatusBadRequest, msg: "product not available"},
	{target: service.ErrVariantNotFound, status: http.StatusNotFound, msg: "product variant not found"},
	{target: service.ErrCartEmpty, status: http.StatusBadRequest, msg: "cart is empty"},
	{target: service.ErrCouponInvalid, status: http.StatusBadRequest, msg: "coupon is invalid or expired"},
	{target: service.ErrCouponMinSubtotal, status: http.StatusBadRequest, msg: "cart subtotal below coupon minimum"},
}

var orderCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidIdentity, status: http.StatusBadRequest, msg: "invalid identity"},
	{target: service.ErrCartEmpty, status: http.StatusBadRequest, msg: "cart is empty"},
	{target: service.ErrProductNotFound, status: http.StatusNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, status: http.StatusBadRequest, msg: "product not available"},
	{target: service.ErrOrderNotFound, status: http.StatusNotFound, msg: "order not found"},
	{target: service.ErrOrderCancelNotAllowed, status: http.StatusBadRequest, msg: "order can no longer be cancelled"},
	{target: service.ErrOrderFetchFailed, status: http.StatusInternalServerError, msg: "failed to load order"},
	{target: service.ErrOrderUpdateFailed, status: http.StatusInternalServerError, msg: "failed to update order"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartCommonErrorRules, http.StatusInternalServerError, "cart operation failed")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCommonErrorRules, http.StatusInternalServerError, "order operation failed")
}
