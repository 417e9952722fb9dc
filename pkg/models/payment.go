package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentCard stores only what is needed to render a saved card; the full
// number never reaches the database.
type PaymentCard struct {
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	Company    string             `bson:"company" json:"company"`
	Last4      string             `bson:"last4" json:"last4"`
	ExpMonth   string             `bson:"exp_month" json:"expMonth"`
	ExpYear    string             `bson:"exp_year" json:"expYear"`
	HolderName string             `bson:"holder_name" json:"holderName"`
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	IsDefault  bool               `bson:"is_default" json:"isDefault"`
}

type PaymentCardRequest struct {
	Number     string `json:"number" validate:"required"`
	ExpMonth   string `json:"expMonth" validate:"required"`
	ExpYear    string `json:"expYear" validate:"required"`
	Cvv        string `json:"cvv" validate:"required"`
	HolderName string `json:"holderName" validate:"required"`
	IsDefault  bool   `json:"isDefault"`
}

type PaymentIntentRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

type VerifyPaymentRequest struct {
	IntentId string `json:"intentId" validate:"required"`
}
