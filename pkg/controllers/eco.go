package controllers

import (
	"context"
	"net/http"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/eco"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VerifyEcoClaim re-runs eco-claim verification on one of the seller's
// products. The write is guarded by the product's eco_rev counter: the update
// only lands if nobody re-verified the product since we read it, otherwise
// the caller gets a conflict and can retry against the fresh verdict.
func VerifyEcoClaim() gin.HandlerFunc {
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
		if !product.EcoClaimed {
			util.HandleError(c, http.StatusBadRequest, errors.New("product carries no eco claim"))
			return
		}
		if len(product.Images) == 0 {
			util.HandleError(c, http.StatusBadRequest, errors.New("product has no image to classify"))
			return
		}

		verdict, err := eco.NewClientFromEnv().Verify(ctx, eco.VerifyRequest{
			Name:        product.Name,
			Description: product.Description,
			Category:    product.Category,
			ClaimLabel:  product.EcoClaim.Label,
			ImageURL:    product.Images[0],
		})
		if err != nil {
			// Classifier outage or garbage response: fail loud, write nothing.
			util.HandleError(c, http.StatusBadGateway, errors.Wrap(err, "eco classifier failed"))
			return
		}

		claim := models.EcoClaim{
			Source:     models.EcoClaimSourceAI,
			Label:      verdict.Label,
			Confidence: verdict.Confidence,
			VerifiedAt: now,
		}
		if claim.Label == "" {
			claim.Label = product.EcoClaim.Label
		}

		res, err := common.CatalogueCollection.UpdateOne(ctx,
			bson.M{"_id": cat.ID},
			bson.M{
				"$set": bson.M{
					"products.$[p].eco_verified": verdict.Verified,
					"products.$[p].eco_claim":    claim,
					"modified_at":                now,
				},
				"$inc": bson.M{"products.$[p].eco_rev": 1},
			},
			options.Update().SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{
					bson.M{"p._id": productId, "p.eco_rev": product.EcoRev},
				},
			}),
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.ModifiedCount == 0 {
			util.HandleError(c, http.StatusConflict,
				errors.New("product was re-verified concurrently, please retry"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProducts, productId.Hex())
		util.HandleSuccess(c, http.StatusOK, "Eco claim verified", gin.H{
			"verified": verdict.Verified,
			"claim":    claim,
		})
	}
}
