package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMergeCartLine(t *testing.T) {
	productId := primitive.NewObjectID()
	catalogueId := primitive.NewObjectID()

	cart := []CartLine{
		{ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 1},
	}

	t.Run("same key merges quantity", func(t *testing.T) {
		got := MergeCartLine(cart, CartLine{
			ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 2,
		})
		if len(got) != 1 {
			t.Fatalf("expected 1 line, got %d", len(got))
		}
		if got[0].Quantity != 3 {
			t.Errorf("Quantity = %d, want 3", got[0].Quantity)
		}
	})

	t.Run("different size appends", func(t *testing.T) {
		cart := []CartLine{
			{ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 3},
		}
		got := MergeCartLine(cart, CartLine{
			ProductId: productId, CatalogueId: catalogueId, Size: "L", Quantity: 1,
		})
		if len(got) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(got))
		}
	})

	t.Run("different product appends", func(t *testing.T) {
		cart := []CartLine{
			{ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 3},
		}
		got := MergeCartLine(cart, CartLine{
			ProductId: primitive.NewObjectID(), CatalogueId: catalogueId, Size: "M", Quantity: 1,
		})
		if len(got) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(got))
		}
	})
}

func TestRemoveCartLines(t *testing.T) {
	productId := primitive.NewObjectID()
	catalogueId := primitive.NewObjectID()
	other := primitive.NewObjectID()

	cart := []CartLine{
		{ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 1},
		{ProductId: productId, CatalogueId: catalogueId, Size: "L", Quantity: 2},
		{ProductId: other, CatalogueId: catalogueId, Size: "M", Quantity: 1},
	}

	got := RemoveCartLines(cart, productId, catalogueId)
	if len(got) != 1 {
		t.Fatalf("expected 1 line left, got %d", len(got))
	}
	if got[0].ProductId != other {
		t.Error("wrong line removed")
	}
}

func TestBuildCartData(t *testing.T) {
	productId := primitive.NewObjectID()
	catalogueId := primitive.NewObjectID()

	cart := []CartLine{
		{ProductId: productId, CatalogueId: catalogueId, Size: "M", Quantity: 2},
		{ProductId: productId, CatalogueId: catalogueId, Size: "", Quantity: 1},
	}

	data := BuildCartData(cart)
	if data[productId.Hex()]["M"] != 2 {
		t.Errorf("size M quantity = %d, want 2", data[productId.Hex()]["M"])
	}
	if data[productId.Hex()][DefaultSize] != 1 {
		t.Errorf("empty size should map to %q", DefaultSize)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password     string
		wantProblems int
	}{
		{"Abcdef12", 0},
		{"abcdef12", 1},
		{"ABCDEF12", 1},
		{"Abcdefgh", 1},
		{"12345678", 2},
		{"", 3},
	}

	for _, tt := range tests {
		if got := ValidatePasswordStrength(tt.password); len(got) != tt.wantProblems {
			t.Errorf("ValidatePasswordStrength(%q) = %v problems, want %d", tt.password, got, tt.wantProblems)
		}
	}
}
