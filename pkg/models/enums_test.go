package models

import "testing"

func TestSellerStatusTransitions(t *testing.T) {
	tests := []struct {
		from SellerStatus
		to   SellerStatus
		want bool
	}{
		{SellerStatusPending, SellerStatusVerified, true},
		{SellerStatusPending, SellerStatusBlocked, true},
		{SellerStatusVerified, SellerStatusBlocked, true},
		{SellerStatusBlocked, SellerStatusVerified, true},
		{SellerStatusBlocked, SellerStatusBlocked, true},
		{SellerStatusVerified, SellerStatusPending, false},
		{SellerStatusBlocked, SellerStatusPending, false},
		{SellerStatusVerified, SellerStatusVerified, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusPending, OrderStatusShipped, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsValidSellerCategory(t *testing.T) {
	if !IsValidSellerCategory("fashion") {
		t.Error("fashion should be a valid category")
	}
	if IsValidSellerCategory("weapons") {
		t.Error("weapons should not be a valid category")
	}
	if IsValidSellerCategory("") {
		t.Error("empty category should not be valid")
	}
}

func TestSellerStatusIsValid(t *testing.T) {
	for _, s := range []SellerStatus{SellerStatusPending, SellerStatusVerified, SellerStatusBlocked} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if SellerStatus("banana").IsValid() {
		t.Error("unknown status should not be valid")
	}
}
