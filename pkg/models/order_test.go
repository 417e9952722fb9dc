package models

import (
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeOrderPricing(t *testing.T) {
	tests := []struct {
		name         string
		lines        []ResolvedLine
		isGroupOrder bool
		wantTotal    float64
		wantPoints   int
		wantCo2      float64
	}{
		{
			name:  "empty order",
			lines: nil,
		},
		{
			name: "non-eco lines earn no points",
			lines: []ResolvedLine{
				{UnitPrice: 50, Quantity: 1},
				{UnitPrice: 20, Quantity: 3},
			},
			wantTotal: 110,
		},
		{
			name: "eco lines earn points and co2",
			lines: []ResolvedLine{
				{UnitPrice: 100, Quantity: 2, EcoVerified: true},
				{UnitPrice: 50, Quantity: 1},
			},
			wantTotal:  250,
			wantPoints: 20,
			wantCo2:    0.4,
		},
		{
			name: "group order adds flat bonus",
			lines: []ResolvedLine{
				{UnitPrice: 100, Quantity: 2, EcoVerified: true},
			},
			isGroupOrder: true,
			wantTotal:    200,
			wantPoints:   70,
			wantCo2:      0.9,
		},
		{
			name: "group order with no eco lines still gets bonus",
			lines: []ResolvedLine{
				{UnitPrice: 10, Quantity: 1},
			},
			isGroupOrder: true,
			wantTotal:    10,
			wantPoints:   50,
			wantCo2:      0.5,
		},
		{
			name: "points round to nearest",
			lines: []ResolvedLine{
				{UnitPrice: 12.5, Quantity: 1, EcoVerified: true},
			},
			wantTotal:  12.5,
			wantPoints: 1,
			wantCo2:    0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOrderPricing(tt.lines, tt.isGroupOrder)
			if got.TotalAmount != tt.wantTotal {
				t.Errorf("TotalAmount = %v, want %v", got.TotalAmount, tt.wantTotal)
			}
			if got.EcoPoints != tt.wantPoints {
				t.Errorf("EcoPoints = %v, want %v", got.EcoPoints, tt.wantPoints)
			}
			if math.Abs(got.Co2Saved-tt.wantCo2) > 1e-9 {
				t.Errorf("Co2Saved = %v, want %v", got.Co2Saved, tt.wantCo2)
			}
		})
	}
}

func TestSumEcoPoints(t *testing.T) {
	orders := []Order{
		{EcoPoints: 10},
		{EcoPoints: 0},
		{EcoPoints: 55},
	}
	if got := SumEcoPoints(orders); got != 65 {
		t.Errorf("SumEcoPoints = %d, want 65", got)
	}
	if got := SumEcoPoints(nil); got != 0 {
		t.Errorf("SumEcoPoints(nil) = %d, want 0", got)
	}
}

func TestHasOrderedProduct(t *testing.T) {
	productId := primitive.NewObjectID()
	catalogueId := primitive.NewObjectID()
	otherProduct := primitive.NewObjectID()

	orders := []Order{
		{
			Status:   OrderStatusDelivered,
			Products: []OrderLine{{ProductId: productId, CatalogueId: catalogueId}},
		},
		{
			Status:   OrderStatusCancelled,
			Products: []OrderLine{{ProductId: otherProduct, CatalogueId: catalogueId}},
		},
	}

	if !HasOrderedProduct(orders, productId, catalogueId) {
		t.Error("expected delivered order to count as a purchase")
	}
	if HasOrderedProduct(orders, otherProduct, catalogueId) {
		t.Error("cancelled orders must not count as purchases")
	}
	if HasOrderedProduct(orders, primitive.NewObjectID(), catalogueId) {
		t.Error("unknown product must not count as a purchase")
	}
}

func TestComputeEcoStats(t *testing.T) {
	orders := []Order{
		{EcoPoints: 20, Co2Saved: 0.4},
		{EcoPoints: 0, Co2Saved: 0},
		{EcoPoints: 50, Co2Saved: 0.5},
	}

	stats := ComputeEcoStats(orders)
	if stats.TotalEcoPoints != 70 {
		t.Errorf("TotalEcoPoints = %d, want 70", stats.TotalEcoPoints)
	}
	if math.Abs(stats.TotalCo2Saved-0.9) > 1e-9 {
		t.Errorf("TotalCo2Saved = %v, want 0.9", stats.TotalCo2Saved)
	}
	if stats.EcoOrderCount != 2 {
		t.Errorf("EcoOrderCount = %d, want 2", stats.EcoOrderCount)
	}
}
