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

func GetUserById(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// CurrentUser resolves the authenticated buyer from the request token.
// Responds with the right status itself so callers can just return on error.
func CurrentUser(c *gin.Context, ctx context.Context) (models.User, error) {
	claim, err := auth.InitJwtClaim(c)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return models.User{}, err
	}
	if claim.Role != models.RoleBuyer {
		err := errors.New("this action requires a buyer account")
		util.HandleError(c, http.StatusForbidden, err)
		return models.User{}, err
	}

	userId, err := claim.GetAccountObjectId()
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return models.User{}, err
	}

	user, err := GetUserById(ctx, userId)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("user not found"))
		} else {
			util.HandleError(c, http.StatusInternalServerError, err)
		}
		return models.User{}, err
	}

	return user, nil
}
