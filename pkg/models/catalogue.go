package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinProductImages = 1
	MaxProductImages = 4
)

// EcoClaim is the verification verdict written back onto a product. Only
// meaningful once EcoVerified has been computed at least once.
type EcoClaim struct {
	Source     EcoClaimSource `bson:"source" json:"source"`
	Label      string         `bson:"label" json:"label"`
	Confidence float64        `bson:"confidence" json:"confidence"`
	VerifiedAt time.Time      `bson:"verified_at" json:"verifiedAt"`
}

type SellerReply struct {
	Text      string    `bson:"text" json:"text"`
	RepliedAt time.Time `bson:"replied_at" json:"repliedAt"`
}

type Review struct {
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	Title              string             `bson:"title" json:"title"`
	Comment            string             `bson:"comment" json:"comment"`
	Images             []string           `bson:"images" json:"images"`
	SellerReply        *SellerReply       `bson:"seller_reply,omitempty" json:"sellerReply,omitempty"`
	Rating             int                `bson:"rating" json:"rating"`
	Id                 primitive.ObjectID `bson:"_id" json:"_id"`
	UserId             primitive.ObjectID `bson:"user_id" json:"userId"`
	IsVerifiedPurchase bool               `bson:"is_verified_purchase" json:"isVerifiedPurchase"`
}

// Product lives embedded in exactly one Catalogue document; that embedded copy
// is the single source of truth. The seller-facing product view is derived by
// querying the catalogue, never duplicated onto the seller document.
type Product struct {
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"sub_category" json:"subCategory"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Images      []string           `bson:"images" json:"images"`
	Reviews     []Review           `bson:"reviews" json:"reviews"`
	EcoClaim    EcoClaim           `bson:"eco_claim" json:"ecoClaim"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	EcoRev      int                `bson:"eco_rev" json:"-"`
	Id          primitive.ObjectID `bson:"_id" json:"_id"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	InStock     bool               `bson:"in_stock" json:"inStock"`
	EcoClaimed  bool               `bson:"eco_claimed" json:"ecoClaimed"`
	EcoVerified bool               `bson:"eco_verified" json:"ecoVerified"`
}

// HasSize reports whether the requested size is sellable. Products with an
// empty size set accept any size ("one-size").
func (p Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ReviewBy returns the review left by the given user, if any.
func (p Product) ReviewBy(userId primitive.ObjectID) *Review {
	for i := range p.Reviews {
		if p.Reviews[i].UserId == userId {
			return &p.Reviews[i]
		}
	}
	return nil
}

// Catalogue is the canonical per-seller product collection. A unique index on
// seller_id guarantees at most one catalogue per seller; every product write
// goes through an atomic upsert on that key.
type Catalogue struct {
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt  time.Time          `bson:"modified_at" json:"modifiedAt"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"sub_category" json:"subCategory"`
	Products    []Product          `bson:"products" json:"products"`
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	SellerId    primitive.ObjectID `bson:"seller_id" json:"sellerId"`
}

// Product looks up an embedded product by id.
func (cat Catalogue) Product(productId primitive.ObjectID) *Product {
	for i := range cat.Products {
		if cat.Products[i].Id == productId {
			return &cat.Products[i]
		}
	}
	return nil
}

// NewProductRequest is the JSON part of the multipart "add product" form.
type NewProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	SubCategory string   `json:"subCategory"`
	Sizes       []string `json:"sizes"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Bestseller  bool     `json:"bestseller"`
	EcoClaimed  bool     `json:"ecoClaimed"`
	EcoLabel    string   `json:"ecoLabel"`
}

// NewCatalogueRequest is the JSON part of the bulk catalogue-creation form.
// Image files for product i are posted under the field "images<i>"; every
// product follows the same 1-4 image contract as the single-add path.
type NewCatalogueRequest struct {
	Name        string              `json:"name" validate:"required,min=3"`
	Category    string              `json:"category" validate:"required"`
	SubCategory string              `json:"subCategory"`
	Products    []NewProductRequest `json:"products" validate:"required,min=1,dive"`
}

// PublicProduct is the flattened buyer-facing shape: the embedded product plus
// the catalogue and seller coordinates needed for cart and order calls.
type PublicProduct struct {
	ProductId   primitive.ObjectID `json:"productId"`
	CatalogueId primitive.ObjectID `json:"catalogueId"`
	SellerId    primitive.ObjectID `json:"sellerId"`
	SellerName  string             `json:"sellerName,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Category    string             `json:"category"`
	SubCategory string             `json:"subCategory"`
	Sizes       []string           `json:"sizes"`
	Images      []string           `json:"images"`
	Quantity    int                `json:"quantity"`
	Reviews     []Review           `json:"reviews"`
	Bestseller  bool               `json:"bestseller"`
	InStock     bool               `json:"inStock"`
	EcoVerified bool               `json:"ecoVerified"`
	EcoClaim    EcoClaim           `json:"ecoClaim"`
	CreatedAt   time.Time          `json:"addedOn"`
}

// Flatten expands a catalogue into its buyer-facing product rows. Each row
// carries the product's own category pair; the catalogue-level pair only fills
// in for products that never set one.
func (cat Catalogue) Flatten(sellerName string) []PublicProduct {
	out := make([]PublicProduct, 0, len(cat.Products))
	for _, p := range cat.Products {
		category, subCategory := p.Category, p.SubCategory
		if category == "" {
			category = cat.Category
		}
		if subCategory == "" {
			subCategory = cat.SubCategory
		}
		out = append(out, PublicProduct{
			ProductId:   p.Id,
			CatalogueId: cat.ID,
			SellerId:    cat.SellerId,
			SellerName:  sellerName,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    category,
			SubCategory: subCategory,
			Sizes:       p.Sizes,
			Images:      p.Images,
			Quantity:    p.Quantity,
			Reviews:     p.Reviews,
			Bestseller:  p.Bestseller,
			InStock:     p.InStock,
			EcoVerified: p.EcoVerified,
			EcoClaim:    p.EcoClaim,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out
}

// ProductReview pairs a review with the product it was left on, for the
// seller-facing listing of all reviews across a catalogue.
type ProductReview struct {
	ProductId   primitive.ObjectID `json:"productId"`
	ProductName string             `json:"productName"`
	Review      Review             `json:"review"`
}

// AllReviews collects every review in the catalogue, tagged with its product.
func (cat Catalogue) AllReviews() []ProductReview {
	out := []ProductReview{}
	for _, p := range cat.Products {
		for _, r := range p.Reviews {
			out = append(out, ProductReview{
				ProductId:   p.Id,
				ProductName: p.Name,
				Review:      r,
			})
		}
	}
	return out
}

type ReviewRequest struct {
	ProductId   primitive.ObjectID `json:"productId" validate:"required"`
	CatalogueId primitive.ObjectID `json:"catalogueId" validate:"required"`
	Rating      int                `json:"rating" validate:"required,min=1,max=5"`
	Title       string             `json:"title" validate:"required,max=100"`
	Comment     string             `json:"comment" validate:"required,max=500"`
	Images      []string           `json:"images"`
}

type SellerReplyRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
