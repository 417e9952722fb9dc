package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// AddToCart validates the product reference and merges the line into the
// buyer's embedded cart.
func AddToCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		_, product, err := common.ResolveProduct(ctx, req.CatalogueId, req.ProductId)
		if err != nil {
			if err == common.ErrCatalogueNotFound || err == common.ErrProductNotFound {
				util.HandleError(c, http.StatusNotFound, err)
			} else {
				util.HandleError(c, http.StatusInternalServerError, err)
			}
			return
		}

		if !product.InStock || product.Quantity < req.Quantity {
			util.HandleError(c, http.StatusBadRequest, errors.New("product is out of stock"))
			return
		}

		size := req.Size
		if size == "" {
			size = models.DefaultSize
		}
		if !product.HasSize(size) {
			util.HandleError(c, http.StatusBadRequest,
				fmt.Errorf("size %q is not available, available sizes: %v", size, product.Sizes))
			return
		}

		cart := models.MergeCartLine(user.Cart, models.CartLine{
			ProductId:   req.ProductId,
			CatalogueId: req.CatalogueId,
			Quantity:    req.Quantity,
			Size:        size,
			AddedAt:     now,
		})

		_, err = common.UserCollection.UpdateOne(ctx,
			bson.M{"_id": user.Id},
			bson.M{"$set": bson.M{"cart": cart, "modified_at": now}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserCart, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Item added to cart", models.BuildCartData(cart))
	}
}

// GetCart returns the raw cart lines plus the flattened cart data map.
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"cart":     user.Cart,
			"cartData": models.BuildCartData(user.Cart),
		})
	}
}

// RemoveFromCart drops every line of one product from the cart.
func RemoveFromCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.RemoveFromCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		cart := models.RemoveCartLines(user.Cart, req.ProductId, req.CatalogueId)
		if len(cart) == len(user.Cart) {
			util.HandleError(c, http.StatusNotFound, errors.New("product is not in the cart"))
			return
		}

		_, err = common.UserCollection.UpdateOne(ctx,
			bson.M{"_id": user.Id},
			bson.M{"$set": bson.M{"cart": cart, "modified_at": now}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserCart, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Item removed from cart", models.BuildCartData(cart))
	}
}

// ClearCart empties the buyer's cart.
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		_, err = common.UserCollection.UpdateOne(ctx,
			bson.M{"_id": user.Id},
			bson.M{"$set": bson.M{"cart": []models.CartLine{}, "modified_at": now}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserCart, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Cart cleared successfully", nil)
	}
}
