package common

import (
	"context"
	"errors"
	"net/http"

	"greenmart-io/api/internal/auth"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrSellerNotVerified = errors.New("seller account is not verified yet")

func GetSellerById(ctx context.Context, id primitive.ObjectID) (models.Seller, error) {
	var seller models.Seller
	err := SellerCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&seller)
	if err != nil {
		return models.Seller{}, err
	}

	return seller, nil
}

func GetSellerByEmail(ctx context.Context, email string) (models.Seller, error) {
	var seller models.Seller
	err := SellerCollection.FindOne(ctx, bson.M{"email": email}).Decode(&seller)
	if err != nil {
		return models.Seller{}, err
	}

	return seller, nil
}

// CurrentSeller resolves the authenticated seller from the request token.
// Responds with the right status itself so callers can just return on error.
func CurrentSeller(c *gin.Context, ctx context.Context) (models.Seller, error) {
	claim, err := auth.InitJwtClaim(c)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return models.Seller{}, err
	}
	if claim.Role != models.RoleSeller {
		err := errors.New("this action requires a seller account")
		util.HandleError(c, http.StatusForbidden, err)
		return models.Seller{}, err
	}

	sellerId, err := claim.GetAccountObjectId()
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return models.Seller{}, err
	}

	seller, err := GetSellerById(ctx, sellerId)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("seller not found"))
		} else {
			util.HandleError(c, http.StatusInternalServerError, err)
		}
		return models.Seller{}, err
	}

	return seller, nil
}

// CurrentVerifiedSeller is CurrentSeller plus the verification gate every
// catalogue write goes through. Pending and blocked sellers are rejected.
func CurrentVerifiedSeller(c *gin.Context, ctx context.Context) (models.Seller, error) {
	seller, err := CurrentSeller(c, ctx)
	if err != nil {
		return models.Seller{}, err
	}

	if seller.Status != models.SellerStatusVerified {
		util.HandleError(c, http.StatusForbidden, ErrSellerNotVerified)
		return models.Seller{}, ErrSellerNotVerified
	}

	return seller, nil
}
