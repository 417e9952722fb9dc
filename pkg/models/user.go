package models

import (
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a buyer account. Cart and orders are embedded; orders are
// append-only snapshots mutable only through status transitions.
type User struct {
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt     time.Time          `bson:"modified_at" json:"modifiedAt"`
	Name           string             `bson:"name" json:"name" validate:"required,min=2"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	PasswordDigest string             `bson:"password_digest,omitempty" json:"-"`
	Phone          string             `bson:"phone" json:"phone"`
	Thumbnail      string             `bson:"thumbnail" json:"thumbnail"`
	Address        Address            `bson:"address" json:"address"`
	Cart           []CartLine         `bson:"cart" json:"cart"`
	Orders         []Order            `bson:"orders" json:"orders"`
	TotalEcoPoints int                `bson:"total_eco_points" json:"totalEcoPoints"`
	Id             primitive.ObjectID `bson:"_id" json:"_id"`
	EmailVerified  bool               `bson:"email_verified" json:"emailVerified"`
}

// CartLine references an embedded catalogue product. Lines with the same
// (productId, catalogueId, size) key merge by quantity.
type CartLine struct {
	AddedAt     time.Time          `bson:"added_at" json:"addedAt"`
	Size        string             `bson:"size" json:"size"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	ProductId   primitive.ObjectID `bson:"product_id" json:"productId"`
	CatalogueId primitive.ObjectID `bson:"catalogue_id" json:"catalogueId"`
}

const DefaultSize = "one-size"

// MergeCartLine adds quantity onto an existing matching line or appends a new
// one, returning the updated cart.
func MergeCartLine(cart []CartLine, line CartLine) []CartLine {
	for i := range cart {
		if cart[i].ProductId == line.ProductId &&
			cart[i].CatalogueId == line.CatalogueId &&
			cart[i].Size == line.Size {
			cart[i].Quantity += line.Quantity
			return cart
		}
	}
	return append(cart, line)
}

// RemoveCartLines drops every line referencing the given product, returning
// the filtered cart.
func RemoveCartLines(cart []CartLine, productId, catalogueId primitive.ObjectID) []CartLine {
	out := cart[:0]
	for _, line := range cart {
		if line.ProductId == productId && line.CatalogueId == catalogueId {
			continue
		}
		out = append(out, line)
	}
	return out
}

// BuildCartData folds cart lines into the productId -> size -> quantity map
// the storefront renders.
func BuildCartData(cart []CartLine) map[string]map[string]int {
	data := map[string]map[string]int{}
	for _, line := range cart {
		pid := line.ProductId.Hex()
		if data[pid] == nil {
			data[pid] = map[string]int{}
		}
		size := line.Size
		if size == "" {
			size = DefaultSize
		}
		data[pid][size] += line.Quantity
	}
	return data
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,min=10"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	IdToken string `json:"idToken" validate:"required"`
}

type RefreshTokenPayload struct {
	Token string `json:"token" validate:"required"`
}

type AddToCartRequest struct {
	ProductId   primitive.ObjectID `json:"productId" validate:"required"`
	CatalogueId primitive.ObjectID `json:"catalogueId" validate:"required"`
	Quantity    int                `json:"quantity" validate:"gte=1"`
	Size        string             `json:"size"`
}

type RemoveFromCartRequest struct {
	ProductId   primitive.ObjectID `json:"productId" validate:"required"`
	CatalogueId primitive.ObjectID `json:"catalogueId" validate:"required"`
}

// ValidatePasswordStrength applies the buyer password policy: at least one
// uppercase letter, one lowercase letter and one digit.
func ValidatePasswordStrength(password string) []string {
	var problems []string

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		problems = append(problems, "at least one uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "at least one lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "at least one digit")
	}

	return problems
}
