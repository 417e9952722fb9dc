package controllers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/internal/reports"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminLogin authenticates against the configured admin credentials and
// issues an admin-role token. There is no admin document in the database.
func AdminLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UserLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		adminEmail := util.LoadEnvFor("ADMIN_EMAIL")
		adminPassword := util.LoadEnvFor("ADMIN_PASSWORD")

		emailOk := subtle.ConstantTimeCompare([]byte(req.Email), []byte(adminEmail)) == 1
		passwordOk := subtle.ConstantTimeCompare([]byte(req.Password), []byte(adminPassword)) == 1
		if !emailOk || !passwordOk {
			util.HandleError(c, http.StatusUnauthorized, errors.New("invalid admin credentials"))
			return
		}

		tokens, err := issueTokens(primitive.NilObjectID, adminEmail, models.RoleAdmin)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", tokens)
	}
}

// ListSellers pages through seller accounts, optionally filtered by status.
func ListSellers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		paginationArgs := helpers.GetPaginationArgs(c)

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			if !models.SellerStatus(status).IsValid() {
				util.HandleError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", status))
				return
			}
			filter["status"] = status
		}

		findOptions := options.Find().
			SetLimit(int64(paginationArgs.Limit)).
			SetSkip(int64(paginationArgs.Skip)).
			SetSort(util.GetCreatedAtSortBson(paginationArgs.Sort)).
			SetProjection(bson.M{"password_digest": 0})

		cursor, err := common.SellerCollection.Find(ctx, filter, findOptions)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var sellers []models.Seller
		if err := cursor.All(ctx, &sellers); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		count, err := common.SellerCollection.CountDocuments(ctx, filter)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccessMeta(c, http.StatusOK, "success", sellers, gin.H{
			"pagination": util.Pagination{
				Limit: paginationArgs.Limit,
				Skip:  paginationArgs.Skip,
				Count: count,
			},
		})
	}
}

// transitionSeller applies one seller status transition, enforcing the state
// machine with a compare-and-set on the current status.
func transitionSeller(c *gin.Context, target models.SellerStatus) {
	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
	defer cancel()

	sellerId, err := helpers.ObjectIdParam(c, "sellerid")
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	seller, err := common.GetSellerById(ctx, sellerId)
	if err != nil {
		util.HandleError(c, http.StatusNotFound, errors.New("seller not found"))
		return
	}

	// Already in the target state: report success without touching the
	// document, so a repeated block call does not trip the CAS below.
	if seller.Status == target {
		util.HandleSuccess(c, http.StatusOK, "Seller status updated", gin.H{
			"sellerId": sellerId,
			"status":   target,
		})
		return
	}

	if !seller.Status.CanTransitionTo(target) {
		util.HandleError(c, http.StatusConflict,
			fmt.Errorf("cannot move seller from %q to %q", seller.Status, target))
		return
	}

	res, err := common.SellerCollection.UpdateOne(ctx,
		bson.M{"_id": sellerId, "status": seller.Status},
		bson.M{"$set": bson.M{"status": target, "modified_at": now}},
	)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	if res.ModifiedCount == 0 {
		util.HandleError(c, http.StatusConflict, errors.New("seller status changed concurrently, please retry"))
		return
	}

	_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateSeller, sellerId.Hex())
	util.HandleSuccess(c, http.StatusOK, "Seller status updated", gin.H{
		"sellerId": sellerId,
		"status":   target,
	})
}

// VerifySeller approves a pending seller.
func VerifySeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		transitionSeller(c, models.SellerStatusVerified)
	}
}

// BlockSeller blocks a seller; their catalogue stays but write access stops.
func BlockSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		transitionSeller(c, models.SellerStatusBlocked)
	}
}

// UnblockSeller restores a blocked seller to verified.
func UnblockSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		transitionSeller(c, models.SellerStatusVerified)
	}
}

// ExportSellersCsv streams every seller account as a CSV download.
func ExportSellersCsv() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		cursor, err := common.SellerCollection.Find(ctx, bson.M{})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var sellers []models.Seller
		if err := cursor.All(ctx, &sellers); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		filename := "sellers-" + time.Now().Format("2006-01-02") + ".csv"
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := reports.WriteSellerCsv(c.Writer, reports.BuildSellerRows(sellers)); err != nil {
			util.LogError("failed to stream seller csv", err)
		}
	}
}

// ListCatalogues returns the joined catalogue report rows as JSON.
func ListCatalogues() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		rows, err := loadCatalogueRows(ctx)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", rows)
	}
}

// ExportCataloguesCsv streams the same report as a CSV download.
func ExportCataloguesCsv() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		rows, err := loadCatalogueRows(ctx)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		filename := "catalogues-" + time.Now().Format("2006-01-02") + ".csv"
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

		if err := reports.WriteCatalogueCsv(c.Writer, rows); err != nil {
			util.LogError("failed to stream catalogue csv", err)
		}
	}
}

func loadCatalogueRows(ctx context.Context) ([]reports.CatalogueRow, error) {
	catCursor, err := common.CatalogueCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer catCursor.Close(ctx)

	var catalogues []models.Catalogue
	if err := catCursor.All(ctx, &catalogues); err != nil {
		return nil, err
	}

	sellerCursor, err := common.SellerCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer sellerCursor.Close(ctx)

	var sellers []models.Seller
	if err := sellerCursor.All(ctx, &sellers); err != nil {
		return nil, err
	}

	return reports.BuildCatalogueRows(catalogues, sellers), nil
}
