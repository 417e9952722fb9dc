package controllers

import (
	"context"
	"fmt"
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

// Window in which group orders from the same zip bucket can be matched.
const groupOrderWindow = 30 * time.Minute

// PlaceOrder converts the buyer's cart into an order. Every cart line is
// resolved against its catalogue first; a single missing product aborts the
// whole order. The order append, eco-point recompute, stock decrement and
// cart clear all commit in one transaction.
func PlaceOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req models.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		if len(user.Cart) == 0 {
			util.HandleError(c, http.StatusBadRequest, errors.New("cart is empty"))
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
			resolved := make([]models.ResolvedLine, 0, len(user.Cart))
			orderLines := make([]models.OrderLine, 0, len(user.Cart))

			for _, line := range user.Cart {
				_, product, err := common.ResolveProduct(sessionContext, line.CatalogueId, line.ProductId)
				if err != nil {
					return nil, fmt.Errorf("cart line %s: %w", line.ProductId.Hex(), err)
				}
				if !product.InStock || product.Quantity < line.Quantity {
					return nil, fmt.Errorf("product %q is out of stock", product.Name)
				}

				resolved = append(resolved, models.ResolvedLine{
					UnitPrice:   product.Price,
					Quantity:    line.Quantity,
					EcoVerified: product.EcoVerified,
				})
				orderLines = append(orderLines, models.OrderLine{
					ProductId:   line.ProductId,
					CatalogueId: line.CatalogueId,
					Quantity:    line.Quantity,
					Size:        line.Size,
				})

				// Decrement stock on the canonical embedded product.
				remaining := product.Quantity - line.Quantity
				_, err = common.CatalogueCollection.UpdateOne(sessionContext,
					bson.M{"_id": line.CatalogueId, "products._id": line.ProductId},
					bson.M{"$set": bson.M{
						"products.$.quantity": remaining,
						"products.$.in_stock": remaining > 0,
						"modified_at":         now,
					}},
				)
				if err != nil {
					return nil, err
				}
			}

			pricing := models.ComputeOrderPricing(resolved, req.IsGroupOrder)

			order := models.Order{
				Id:           primitive.NewObjectID(),
				Products:     orderLines,
				Address:      req.Address,
				Status:       models.OrderStatusPending,
				TotalAmount:  pricing.TotalAmount,
				EcoPoints:    pricing.EcoPoints,
				Co2Saved:     pricing.Co2Saved,
				IsGroupOrder: req.IsGroupOrder,
				CreatedAt:    now,
			}

			totalEcoPoints := models.SumEcoPoints(append(user.Orders, order))

			_, err := common.UserCollection.UpdateOne(sessionContext,
				bson.M{"_id": user.Id},
				bson.M{
					"$push": bson.M{"orders": order},
					"$set": bson.M{
						"cart":             []models.CartLine{},
						"total_eco_points": totalEcoPoints,
						"modified_at":      now,
					},
				},
			)
			if err != nil {
				return nil, err
			}

			return order, nil
		}

		result, err := dbSession.WithTransaction(ctx, callback, txnOptions)
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserOrders, user.Id.Hex())
		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProducts, "")
		util.HandleSuccess(c, http.StatusCreated, "Order placed successfully", result)
	}
}

// GetMyOrders lists the buyer's orders, newest first.
func GetMyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		orders := user.Orders
		for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
			orders[i], orders[j] = orders[j], orders[i]
		}

		util.HandleSuccess(c, http.StatusOK, "success", orders)
	}
}

// CancelOrder lets a buyer cancel one of their own orders while it is still
// cancellable. Eco points earned by the order are clawed back.
func CancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		orderId, err := helpers.ObjectIdParam(c, "orderid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		var target *models.Order
		for i := range user.Orders {
			if user.Orders[i].Id == orderId {
				target = &user.Orders[i]
				break
			}
		}
		if target == nil {
			util.HandleError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}

		if !target.Status.CanTransitionTo(models.OrderStatusCancelled) {
			util.HandleError(c, http.StatusConflict,
				fmt.Errorf("order in status %q cannot be cancelled", target.Status))
			return
		}

		target.Status = models.OrderStatusCancelled
		target.EcoPoints = 0
		target.Co2Saved = 0
		totalEcoPoints := models.SumEcoPoints(user.Orders)

		_, err = common.UserCollection.UpdateOne(ctx,
			bson.M{"_id": user.Id, "orders._id": orderId},
			bson.M{"$set": bson.M{
				"orders.$.status":     models.OrderStatusCancelled,
				"orders.$.eco_points": 0,
				"orders.$.co2_saved":  0.0,
				"total_eco_points":    totalEcoPoints,
				"modified_at":         now,
			}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserOrders, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Order cancelled successfully", target)
	}
}

// UpdateOrderStatus moves an order along the fulfilment state machine. Admin
// only; illegal transitions are rejected.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		userId, err := helpers.ObjectIdParam(c, "userid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		orderId, err := helpers.ObjectIdParam(c, "orderid")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		var req models.OrderStatusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		owner, err := common.GetUserById(ctx, userId)
		if err != nil {
			util.HandleError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}

		var current models.OrderStatus
		found := false
		for _, o := range owner.Orders {
			if o.Id == orderId {
				current = o.Status
				found = true
				break
			}
		}
		if !found {
			util.HandleError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}

		if !current.CanTransitionTo(req.Status) {
			util.HandleError(c, http.StatusConflict,
				fmt.Errorf("cannot move order from %q to %q", current, req.Status))
			return
		}

		res, err := common.UserCollection.UpdateOne(ctx,
			bson.M{"_id": userId, "orders._id": orderId},
			bson.M{"$set": bson.M{
				"orders.$.status": req.Status,
				"modified_at":     now,
			}},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.MatchedCount == 0 {
			util.HandleError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUserOrders, userId.Hex())
		util.HandleSuccess(c, http.StatusOK, "Order status updated", req.Status)
	}
}

// GetNearbyGroupOrders finds open group orders placed from the buyer's zip
// code within the matching window, so the storefront can offer joining a
// shared delivery instead of starting a new one.
func GetNearbyGroupOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		zip := c.Query("zip")
		if zip == "" {
			zip = user.Address.ZipCode
		}
		if zip == "" {
			util.HandleError(c, http.StatusBadRequest, errors.New("no zip code on profile, pass ?zip="))
			return
		}

		windowStart := now.Add(-groupOrderWindow)

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$unwind", Value: "$orders"}},
			bson.D{{Key: "$match", Value: bson.M{
				"orders.is_group_order":   true,
				"orders.status":           bson.M{"$in": []models.OrderStatus{models.OrderStatusPending, models.OrderStatusPaid}},
				"orders.address.zip_code": zip,
				"orders.created_at":       bson.M{"$gte": windowStart},
			}}},
			bson.D{{Key: "$project", Value: bson.M{
				"_id":       0,
				"userId":    "$_id",
				"userName":  "$name",
				"orderId":   "$orders._id",
				"createdAt": "$orders.created_at",
				"status":    "$orders.status",
				"itemCount": bson.M{"$size": "$orders.products"},
			}}},
			bson.D{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
			bson.D{{Key: "$limit", Value: 20}},
		}

		cursor, err := common.UserCollection.Aggregate(ctx, pipeline)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var nearby []bson.M
		if err := cursor.All(ctx, &nearby); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"zip":           zip,
			"windowMinutes": int(groupOrderWindow.Minutes()),
			"groupOrders":   nearby,
		})
	}
}

// GetEcoStats returns the buyer's sustainability summary.
func GetEcoStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", models.ComputeEcoStats(user.Orders))
	}
}
