package models

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type SellerType string

const (
	SellerTypeBranded   SellerType = "branded"
	SellerTypeUnbranded SellerType = "unbranded"
)

type SellerStatus string

const (
	SellerStatusPending  SellerStatus = "pending"
	SellerStatusVerified SellerStatus = "verified"
	SellerStatusBlocked  SellerStatus = "blocked"
)

func (s SellerStatus) IsValid() bool {
	return s == SellerStatusPending || s == SellerStatusVerified || s == SellerStatusBlocked
}

// CanTransitionTo reports whether an admin action may move a seller from s to
// next. Blocking is allowed from any state so repeated block calls stay
// idempotent. Registration and document resubmission set pending directly and
// do not go through here.
func (s SellerStatus) CanTransitionTo(next SellerStatus) bool {
	switch next {
	case SellerStatusVerified:
		return s == SellerStatusPending || s == SellerStatusBlocked
	case SellerStatusBlocked:
		return true
	default:
		return false
	}
}

// Categories a seller may be approved to list under.
var SellerCategories = []string{"electronics", "fashion", "home", "books", "beauty", "sports"}

func IsValidSellerCategory(category string) bool {
	for _, c := range SellerCategories {
		if c == category {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo enforces the order lifecycle: pending -> paid -> shipped ->
// delivered, with cancellation allowed before shipping.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPaid || next == OrderStatusCancelled
	case OrderStatusPaid:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

type EcoClaimSource string

const (
	EcoClaimSourceAI     EcoClaimSource = "AI"
	EcoClaimSourceManual EcoClaimSource = "Manual"
)
