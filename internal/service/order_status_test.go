package service

import (
	"testing"

	"github.com/woodnest/woodnest/internal/constants"
)

func TestIsValidOrderStatus(t *testing.T) {
	valid := []string{
		constants.OrderStatusPending, constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing, constants.OrderStatusShipped,
		constants.OrderStatusDelivered, constants.OrderStatusCancelled,
		constants.OrderStatusRefunded,
	}
	for _, status := range valid {
		if !IsValidOrderStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	for _, status := range []string{"", "paid", "PENDING", "teleported"} {
		if IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}

func TestCanCustomerCancel(t *testing.T) {
	cancellable := map[string]bool{
		constants.OrderStatusPending:    true,
		constants.OrderStatusConfirmed:  true,
		constants.OrderStatusProcessing: true,
		constants.OrderStatusShipped:    false,
		constants.OrderStatusDelivered:  false,
		constants.OrderStatusCancelled:  false,
		constants.OrderStatusRefunded:   false,
	}
	for status, want := range cancellable {
		if got := CanCustomerCancel(status); got != want {
			t.Fatalf("CanCustomerCancel(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, status := range []string{
		constants.PaymentStatusPending, constants.PaymentStatusPaid,
		constants.PaymentStatusFailed, constants.PaymentStatusRefunded,
	} {
		if !IsValidPaymentStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if IsValidPaymentStatus("settled") {
		t.Fatalf("unknown payment status must be invalid")
	}
}
