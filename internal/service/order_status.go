package service

import (
	"fmt"

	"github.com/woodnest/woodnest/internal/constants"
)

// validOrderStatuses 订单状态全集
// 管理端通用状态更新不做状态图约束，任意已知状态之间均可切换。
var validOrderStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusConfirmed:  true,
	constants.OrderStatusProcessing: true,
	constants.OrderStatusShipped:    true,
	constants.OrderStatusDelivered:  true,
	constants.OrderStatusCancelled:  true,
	constants.OrderStatusRefunded:   true,
}

// customerCancellableStatuses 允许客户自助取消的状态集合
var customerCancellableStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusConfirmed:  true,
	constants.OrderStatusProcessing: true,
}

var validPaymentStatuses = map[string]bool{
	constants.PaymentStatusPending:  true,
	constants.PaymentStatusPaid:     true,
	constants.PaymentStatusFailed:   true,
	constants.PaymentStatusRefunded: true,
}

// IsValidOrderStatus 判断是否为已知订单状态
func IsValidOrderStatus(status string) bool {
	return validOrderStatuses[status]
}

// IsValidPaymentStatus 判断是否为已知支付状态
func IsValidPaymentStatus(status string) bool {
	return validPaymentStatuses[status]
}

// CanCustomerCancel 判断客户是否可自助取消该状态的订单
func CanCustomerCancel(status string) bool {
	return customerCancellableStatuses[status]
}

// defaultStatusMessage 状态变更的默认审计说明
func defaultStatusMessage(status string) string {
	return fmt.Sprintf("Order status updated to %s", status)
}
