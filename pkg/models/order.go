package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Eco accounting heuristics. Points accrue on eco-verified lines only; group
// orders earn a flat bonus for sharing a delivery.
const (
	EcoPointsRate        = 0.1
	EcoCo2PerUnitKg      = 0.2
	GroupOrderBonus      = 50
	GroupOrderCo2BonusKg = 0.5
)

type OrderLine struct {
	Size        string             `bson:"size" json:"size"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	ProductId   primitive.ObjectID `bson:"product_id" json:"productId"`
	CatalogueId primitive.ObjectID `bson:"catalogue_id" json:"catalogueId"`
}

type Order struct {
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	Products     []OrderLine        `bson:"products" json:"products"`
	Address      Address            `bson:"address" json:"address"`
	Status       OrderStatus        `bson:"status" json:"status"`
	TotalAmount  float64            `bson:"total_amount" json:"totalAmount"`
	EcoPoints    int                `bson:"eco_points" json:"ecoPoints"`
	Co2Saved     float64            `bson:"co2_saved" json:"co2Saved"`
	Id           primitive.ObjectID `bson:"_id" json:"_id"`
	IsGroupOrder bool               `bson:"is_group_order" json:"isGroupOrder"`
}

// ResolvedLine is an order line after its product has been looked up in the
// owning catalogue.
type ResolvedLine struct {
	UnitPrice   float64
	Quantity    int
	EcoVerified bool
}

// OrderPricing is the derived money/eco summary of an order at placement time.
type OrderPricing struct {
	TotalAmount float64
	EcoPoints   int
	Co2Saved    float64
}

// ComputeOrderPricing derives totals from resolved lines. TotalAmount is the
// plain price*quantity sum. EcoPoints are round(0.1 x eco-verified subtotal),
// plus the group-order bonus; Co2Saved follows the per-unit heuristic.
func ComputeOrderPricing(lines []ResolvedLine, isGroupOrder bool) OrderPricing {
	var total, ecoSubtotal, co2 float64
	for _, line := range lines {
		subtotal := line.UnitPrice * float64(line.Quantity)
		total += subtotal
		if line.EcoVerified {
			ecoSubtotal += subtotal
			co2 += EcoCo2PerUnitKg * float64(line.Quantity)
		}
	}

	points := int(math.Round(EcoPointsRate * ecoSubtotal))
	if isGroupOrder {
		points += GroupOrderBonus
		co2 += GroupOrderCo2BonusKg
	}

	return OrderPricing{
		TotalAmount: total,
		EcoPoints:   points,
		Co2Saved:    co2,
	}
}

// SumEcoPoints recomputes a user's running eco-point balance from their order
// history; called on every order append.
func SumEcoPoints(orders []Order) int {
	total := 0
	for _, o := range orders {
		total += o.EcoPoints
	}
	return total
}

// HasOrderedProduct reports whether any prior order contains a line for the
// given product; gates review creation.
func HasOrderedProduct(orders []Order, productId, catalogueId primitive.ObjectID) bool {
	for _, o := range orders {
		if o.Status == OrderStatusCancelled {
			continue
		}
		for _, line := range o.Products {
			if line.ProductId == productId && line.CatalogueId == catalogueId {
				return true
			}
		}
	}
	return false
}

type PlaceOrderRequest struct {
	Address      Address `json:"address" validate:"required"`
	IsGroupOrder bool    `json:"isGroupOrder"`
}

type OrderStatusUpdateRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// EcoStats is the buyer-facing sustainability summary.
type EcoStats struct {
	TotalEcoPoints int     `json:"totalEcoPoints"`
	TotalCo2Saved  float64 `json:"totalCo2Saved"`
	EcoOrderCount  int     `json:"ecoOrderCount"`
}

// ComputeEcoStats folds a user's order history into their eco summary.
func ComputeEcoStats(orders []Order) EcoStats {
	stats := EcoStats{}
	for _, o := range orders {
		stats.TotalEcoPoints += o.EcoPoints
		stats.TotalCo2Saved += o.Co2Saved
		if o.EcoPoints > 0 || o.Co2Saved > 0 {
			stats.EcoOrderCount++
		}
	}
	return stats
}
