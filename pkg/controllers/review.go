package controllers

import (
	"context"
	"net/http"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// AddReview attaches a buyer review to a product. Only buyers who ordered
// the product can review it, and only once; the purchase check and the
// append commit in one transaction so a concurrent duplicate cannot slip in.
func AddReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		wc := writeconcern.New(writeconcern.WMajority())
		txnOptions := options.Transaction().SetWriteConcern(wc)

		dbSession, err := util.DB.StartSession()
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer dbSession.EndSession(ctx)

		callback := func(sessionContext mongo.SessionContext) (interface{}, error) {
			_, product, err := common.ResolveProduct(sessionContext, req.CatalogueId, req.ProductId)
			if err != nil {
				return nil, err
			}

			if !models.HasOrderedProduct(user.Orders, req.ProductId, req.CatalogueId) {
				return nil, errors.New("only buyers who purchased this product can review it")
			}
			if product.ReviewBy(user.Id) != nil {
				return nil, errors.New("you have already reviewed this product")
			}

			review := models.Review{
				Id:                 primitive.NewObjectID(),
				UserId:             user.Id,
				Rating:             req.Rating,
				Title:              req.Title,
				Comment:            req.Comment,
				Images:             req.Images,
				IsVerifiedPurchase: true,
				CreatedAt:          now,
			}

			_, err = common.CatalogueCollection.UpdateOne(sessionContext,
				bson.M{"_id": req.CatalogueId, "products._id": req.ProductId},
				bson.M{
					"$push": bson.M{"products.$.reviews": review},
					"$set":  bson.M{"modified_at": now},
				},
			)
			if err != nil {
				return nil, err
			}

			return review, nil
		}

		result, err := dbSession.WithTransaction(ctx, callback, txnOptions)
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProductReviews, req.ProductId.Hex())
		util.HandleSuccess(c, http.StatusCreated, "Review added successfully", result)
	}
}

// GetProductReviews lists one product's reviews, public.
func GetProductReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		catalogueId, err := helpers.ObjectIdParam(c, "catalogueid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		productId, err := helpers.ObjectIdParam(c, "productid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		_, product, err := common.ResolveProduct(ctx, catalogueId, productId)
		if err != nil {
			util.HandleError(c, http.StatusNotFound, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", product.Reviews)
	}
}

// GetMyReviews lists every review left across the calling seller's catalogue,
// each tagged with the product it belongs to. Sellers without a catalogue yet
// get an empty list rather than an error.
func GetMyReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentSeller(c, ctx)
		if err != nil {
			return
		}

		cat, err := common.GetCatalogueBySeller(ctx, seller.ID)
		if err != nil {
			if err == common.ErrCatalogueNotFound {
				util.HandleSuccess(c, http.StatusOK, "success", []models.ProductReview{})
				return
			}
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", cat.AllReviews())
	}
}

// ReplyToReview lets the owning seller answer a review, at most once.
func ReplyToReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentVerifiedSeller(c, ctx)
		if err != nil {
			return
		}

		productId, err := helpers.ObjectIdParam(c, "productid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		reviewId, err := helpers.ObjectIdParam(c, "reviewid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		var req models.SellerReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		cat, err := common.GetCatalogueBySeller(ctx, seller.ID)
		if err != nil {
			util.HandleError(c, http.StatusNotFound, err)
			return
		}
		product := cat.Product(productId)
		if product == nil {
			util.HandleError(c, http.StatusNotFound, common.ErrProductNotFound)
			return
		}

		var review *models.Review
		for i := range product.Reviews {
			if product.Reviews[i].Id == reviewId {
				review = &product.Reviews[i]
				break
			}
		}
		if review == nil {
			util.HandleError(c, http.StatusNotFound, errors.New("review not found"))
			return
		}
		if review.SellerReply != nil {
			util.HandleError(c, http.StatusConflict, errors.New("this review already has a reply"))
			return
		}

		reply := models.SellerReply{Text: req.Text, RepliedAt: now}

		// The filter re-checks seller_reply is unset so a concurrent reply
		// loses instead of overwriting.
		res, err := common.CatalogueCollection.UpdateOne(ctx,
			bson.M{"_id": cat.ID},
			bson.M{
				"$set": bson.M{
					"products.$[p].reviews.$[r].seller_reply": reply,
					"modified_at": now,
				},
			},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{
					bson.M{"p._id": productId},
					bson.M{"r._id": reviewId, "r.seller_reply": bson.M{"$exists": false}},
				},
			}),
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.ModifiedCount == 0 {
			util.HandleError(c, http.StatusConflict, errors.New("this review already has a reply"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProductReviews, productId.Hex())
		util.HandleSuccess(c, http.StatusOK, "Reply added successfully", reply)
	}
}
