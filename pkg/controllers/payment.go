package controllers

import (
	"context"
	"net/http"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/auth"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	creditcard "github.com/durango/go-credit-card"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxPaymentCards = 3

// CreatePaymentCard validates and saves a buyer card. Only the last four
// digits and the card company are persisted.
func CreatePaymentCard() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.PaymentCardRequest
		if err := c.BindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		card := creditcard.Card{
			Number:  req.Number,
			Cvv:     req.Cvv,
			Month:   req.ExpMonth,
			Year:    req.ExpYear,
			Company: creditcard.Company{},
		}
		if err := card.Validate(true); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		lastFour, err := card.LastFour()
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := card.Method(); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		count, err := common.PaymentCardCollection.CountDocuments(ctx, bson.M{"user_id": user.Id})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if count >= maxPaymentCards {
			util.HandleError(c, http.StatusBadRequest,
				errors.New("max allowed payment cards reached, please delete another card first"))
			return
		}

		doc := models.PaymentCard{
			ID:         primitive.NewObjectID(),
			UserID:     user.Id,
			Company:    card.Company.Long,
			Last4:      lastFour,
			ExpMonth:   card.Month,
			ExpYear:    card.Year,
			HolderName: req.HolderName,
			IsDefault:  req.IsDefault || count == 0,
			CreatedAt:  now,
		}

		if doc.IsDefault {
			_, err = common.PaymentCardCollection.UpdateMany(ctx,
				bson.M{"user_id": user.Id},
				bson.M{"$set": bson.M{"is_default": false}},
			)
			if err != nil {
				util.HandleError(c, http.StatusInternalServerError, err)
				return
			}
		}

		if _, err := common.PaymentCardCollection.InsertOne(ctx, doc); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserPaymentCard, user.Id.Hex())
		util.HandleSuccess(c, http.StatusCreated, "Payment card saved", doc)
	}
}

// GetPaymentCards lists the buyer's saved cards, default first.
func GetPaymentCards() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		findOptions := options.Find().SetSort(bson.D{
			{Key: "is_default", Value: -1},
			{Key: "created_at", Value: -1},
		})

		cursor, err := common.PaymentCardCollection.Find(ctx, bson.M{"user_id": user.Id}, findOptions)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var cards []models.PaymentCard
		if err := cursor.All(ctx, &cards); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", cards)
	}
}

// ChangeDefaultPaymentCard marks one card default and clears the others.
func ChangeDefaultPaymentCard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		cardId, err := helpers.ObjectIdParam(c, "cardid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		_, err = common.PaymentCardCollection.UpdateMany(ctx,
			bson.M{"user_id": user.Id},
			bson.M{"$set": bson.M{"is_default": false}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		res, err := common.PaymentCardCollection.UpdateOne(ctx,
			bson.M{"_id": cardId, "user_id": user.Id},
			bson.M{"$set": bson.M{"is_default": true}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.MatchedCount == 0 {
			util.HandleError(c, http.StatusNotFound, errors.New("payment card not found"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserPaymentCard, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Default payment card updated", cardId)
	}
}

// CreatePaymentIntent opens a mock payment intent for the given amount. There
// is no real provider behind this; the intent id only exists to be echoed back
// through VerifyPayment.
func CreatePaymentIntent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.PaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		intentId := auth.GenerateSecureToken(16)
		if intentId == "" {
			util.HandleError(c, http.StatusInternalServerError, errors.New("failed to create payment intent"))
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Payment intent created", gin.H{
			"intentId": intentId,
			"userId":   user.Id,
			"amount":   req.Amount,
			"currency": req.Currency,
			"status":   "requires_confirmation",
		})
	}
}

// VerifyPayment confirms a mock payment intent.
func VerifyPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Payment verified", gin.H{
			"intentId": req.IntentId,
			"status":   "succeeded",
		})
	}
}

// DeletePaymentCard removes one saved card.
func DeletePaymentCard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		cardId, err := helpers.ObjectIdParam(c, "cardid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		res, err := common.PaymentCardCollection.DeleteOne(ctx, bson.M{"_id": cardId, "user_id": user.Id})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.DeletedCount == 0 {
			util.HandleError(c, http.StatusNotFound, errors.New("payment card not found"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserPaymentCard, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Payment card deleted", res.DeletedCount)
	}
}
