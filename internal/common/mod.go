package common

import (
	"context"
	"fmt"
	"time"

	"greenmart-io/api/pkg/util"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database collections
var (
	UserCollection        = util.GetCollection(util.DB, "User")
	SellerCollection      = util.GetCollection(util.DB, "Seller")
	CatalogueCollection   = util.GetCollection(util.DB, "Catalogue")
	PaymentCardCollection = util.GetCollection(util.DB, "UserPaymentCards")

	Validate = validator.New()
)

const (
	REQUEST_TIMEOUT_SECS     = 2 * 60 * time.Second
	MONGO_DUPLICATE_KEY_CODE = 11000

	DEFAULT_USER_THUMBNAIL = "https://res.cloudinary.com/greenmart/image/upload/v1705607383/greenmart/default_avatar.png"
)

// EnsureIndexes creates the unique indexes the write paths rely on: one
// catalogue per seller and unique emails on both account collections.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := CatalogueCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "seller_id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("catalogue seller_id index: %w", err)
	}

	_, err = SellerCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("seller email index: %w", err)
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user email index: %w", err)
	}

	return nil
}

// IsDuplicateKeyError reports whether a mongo write failed a unique index.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
