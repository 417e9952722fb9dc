package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BrandDocuments holds the uploaded evidence a seller submits for admin
// review. GstNumber and SourceDetails are mandatory for branded sellers only.
type BrandDocuments struct {
	ShopImages        []string `bson:"shop_images" json:"shopImages"`
	BrandAssociations []string `bson:"brand_associations" json:"brandAssociations"`
	PurchaseBills     []string `bson:"purchase_bills" json:"purchaseBills"`
	GstNumber         string   `bson:"gst_number" json:"gstNumber"`
	SourceDetails     string   `bson:"source_details" json:"sourceDetails"`
}

type Seller struct {
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt     time.Time          `bson:"modified_at" json:"modifiedAt"`
	ShopName       string             `bson:"shop_name" json:"shopName" validate:"required,min=3"`
	Slug           string             `bson:"slug" json:"slug"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	PasswordDigest string             `bson:"password_digest,omitempty" json:"-"`
	Phone          string             `bson:"phone" json:"phone"`
	Address        Address            `bson:"address" json:"address"`
	SellerType     SellerType         `bson:"seller_type" json:"sellerType" validate:"oneof=branded unbranded"`
	Categories     []string           `bson:"categories" json:"categories"`
	SellsBrands    bool               `bson:"sells_brands" json:"sellsBrands"`
	BrandDocuments BrandDocuments     `bson:"brand_documents" json:"brandDocuments"`
	Status         SellerStatus       `bson:"status" json:"status"`
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
}

type SellerRegisterRequest struct {
	ShopName   string     `json:"shopName" validate:"required,min=3"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required,min=6"`
	Phone      string     `json:"phone" validate:"required,min=10,max=15"`
	SellerType SellerType `json:"sellerType" validate:"required,oneof=branded unbranded"`
}

type SellerLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SellerExcerpt is the public shape returned from auth endpoints.
type SellerExcerpt struct {
	ID         primitive.ObjectID `json:"id"`
	ShopName   string             `json:"shopName"`
	Slug       string             `json:"slug"`
	Email      string             `json:"email"`
	SellerType SellerType         `json:"sellerType"`
	Status     SellerStatus       `json:"status"`
}

func (s Seller) Excerpt() SellerExcerpt {
	return SellerExcerpt{
		ID:         s.ID,
		ShopName:   s.ShopName,
		Slug:       s.Slug,
		Email:      s.Email,
		SellerType: s.SellerType,
		Status:     s.Status,
	}
}

// AdvancedDetailsRequest carries the non-file fields of the multipart
// "advanced details" submission. Document groups arrive as form files and are
// validated separately.
type AdvancedDetailsRequest struct {
	SellerType    SellerType `form:"sellerType" validate:"required,oneof=branded unbranded"`
	Categories    []string   `form:"categories" validate:"required,min=1"`
	SellsBrands   bool       `form:"sellsBrands"`
	GstNumber     string     `form:"gstNumber"`
	SourceDetails string     `form:"sourceDetails"`
}

// Validate applies the rules that depend on seller type: branded sellers must
// supply a GST number and source details; every category must be a known one.
func (r AdvancedDetailsRequest) Validate() []string {
	var problems []string

	if r.SellerType == SellerTypeBranded {
		if r.GstNumber == "" {
			problems = append(problems, "gstNumber is required for branded sellers")
		}
		if r.SourceDetails == "" {
			problems = append(problems, "sourceDetails is required for branded sellers")
		}
	}

	if len(r.Categories) == 0 {
		problems = append(problems, "at least one category is required")
	}
	for _, c := range r.Categories {
		if !IsValidSellerCategory(c) {
			problems = append(problems, "unknown category: "+c)
		}
	}

	return problems
}
