package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductHasSize(t *testing.T) {
	sized := Product{Sizes: []string{"S", "M", "L"}}
	if !sized.HasSize("M") {
		t.Error("expected M to be available")
	}
	if sized.HasSize("XXL") {
		t.Error("XXL should not be available")
	}

	oneSize := Product{}
	if !oneSize.HasSize(DefaultSize) {
		t.Error("products without sizes accept any size")
	}
	if !oneSize.HasSize("anything") {
		t.Error("products without sizes accept any size")
	}
}

func TestProductReviewBy(t *testing.T) {
	userId := primitive.NewObjectID()
	product := Product{
		Reviews: []Review{
			{Id: primitive.NewObjectID(), UserId: primitive.NewObjectID()},
			{Id: primitive.NewObjectID(), UserId: userId, Rating: 4},
		},
	}

	review := product.ReviewBy(userId)
	if review == nil {
		t.Fatal("expected to find review")
	}
	if review.Rating != 4 {
		t.Errorf("Rating = %d, want 4", review.Rating)
	}

	if product.ReviewBy(primitive.NewObjectID()) != nil {
		t.Error("expected nil for user without review")
	}
}

func TestCatalogueProductLookup(t *testing.T) {
	productId := primitive.NewObjectID()
	cat := Catalogue{
		Products: []Product{
			{Id: primitive.NewObjectID(), Name: "other"},
			{Id: productId, Name: "target"},
		},
	}

	if got := cat.Product(productId); got == nil || got.Name != "target" {
		t.Errorf("Product lookup failed, got %v", got)
	}
	if cat.Product(primitive.NewObjectID()) != nil {
		t.Error("expected nil for unknown product")
	}
}

func TestCatalogueFlatten(t *testing.T) {
	cat := Catalogue{
		ID:          primitive.NewObjectID(),
		SellerId:    primitive.NewObjectID(),
		Category:    "home",
		SubCategory: "kitchen",
		Products: []Product{
			{Id: primitive.NewObjectID(), Name: "bamboo cup", Category: "drinkware", SubCategory: "cups", Price: 9.5, EcoVerified: true, InStock: true},
			{Id: primitive.NewObjectID(), Name: "steel straw", Price: 3},
		},
	}

	rows := cat.Flatten("Green Shop")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.CatalogueId != cat.ID || row.SellerId != cat.SellerId {
			t.Errorf("row %d lost catalogue coordinates", i)
		}
		if row.SellerName != "Green Shop" {
			t.Errorf("row %d SellerName = %q", i, row.SellerName)
		}
	}
	if rows[0].Category != "drinkware" || rows[0].SubCategory != "cups" {
		t.Errorf("row 0 should keep its own categories, got %q/%q", rows[0].Category, rows[0].SubCategory)
	}
	if rows[1].Category != "home" || rows[1].SubCategory != "kitchen" {
		t.Errorf("row 1 should fall back to catalogue categories, got %q/%q", rows[1].Category, rows[1].SubCategory)
	}
	if !rows[0].EcoVerified || rows[1].EcoVerified {
		t.Error("eco flags not carried through")
	}
}

func TestCatalogueAllReviews(t *testing.T) {
	cupId := primitive.NewObjectID()
	strawId := primitive.NewObjectID()
	cat := Catalogue{
		Products: []Product{
			{Id: cupId, Name: "bamboo cup", Reviews: []Review{
				{Id: primitive.NewObjectID(), Rating: 5, Title: "great"},
				{Id: primitive.NewObjectID(), Rating: 2, Title: "cracked"},
			}},
			{Id: primitive.NewObjectID(), Name: "no reviews yet"},
			{Id: strawId, Name: "steel straw", Reviews: []Review{
				{Id: primitive.NewObjectID(), Rating: 4, Title: "solid"},
			}},
		},
	}

	all := cat.AllReviews()
	if len(all) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(all))
	}
	if all[0].ProductId != cupId || all[0].ProductName != "bamboo cup" {
		t.Errorf("review not tagged with its product: %+v", all[0])
	}
	if all[2].ProductId != strawId || all[2].Review.Rating != 4 {
		t.Errorf("last review mis-attributed: %+v", all[2])
	}

	if got := (Catalogue{}).AllReviews(); len(got) != 0 {
		t.Errorf("empty catalogue should yield no reviews, got %d", len(got))
	}
}
