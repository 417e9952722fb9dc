package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// RegisterSeller creates a seller account. New sellers start out pending and
// stay read-only until an admin verifies their submitted documents.
func RegisterSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		var req models.SellerRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		seller := models.Seller{
			ID:             primitive.NewObjectID(),
			ShopName:       req.ShopName,
			Slug:           slug.Make(req.ShopName),
			Email:          strings.ToLower(req.Email),
			PasswordDigest: string(digest),
			Phone:          req.Phone,
			SellerType:     req.SellerType,
			Status:         models.SellerStatusPending,
			CreatedAt:      now,
			ModifiedAt:     now,
		}

		if _, err := common.SellerCollection.InsertOne(ctx, seller); err != nil {
			if common.IsDuplicateKeyError(err) {
				util.HandleError(c, http.StatusConflict, errors.New("a seller with this email already exists"))
				return
			}
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		tokens, err := issueTokens(seller.ID, seller.Email, models.RoleSeller)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		tokens["seller"] = seller.Excerpt()

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateSellers, "")
		util.HandleSuccess(c, http.StatusCreated, "Seller account created, pending verification", tokens)
	}
}

// LoginSeller logs a seller in with email and password. Blocked sellers can
// still log in to see their status; write paths reject them separately.
func LoginSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		var req models.SellerLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		seller, err := common.GetSellerByEmail(ctx, strings.ToLower(req.Email))
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordDigest), []byte(req.Password)); err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		tokens, err := issueTokens(seller.ID, seller.Email, models.RoleSeller)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		tokens["seller"] = seller.Excerpt()

		util.HandleSuccess(c, http.StatusOK, "success", tokens)
	}
}

// GetSellerProfile returns the authenticated seller's own document.
func GetSellerProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentSeller(c, ctx)
		if err != nil {
			return
		}

		seller.PasswordDigest = ""
		util.HandleSuccess(c, http.StatusOK, "success", seller)
	}
}

// GetPublicSellerProfile returns the storefront view of a seller.
func GetPublicSellerProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
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

		util.HandleSuccess(c, http.StatusOK, "success", seller.Excerpt())
	}
}

// SubmitAdvancedDetails receives the verification document groups as one
// multipart form: shopImages, brandAssociations and purchaseBills files plus
// the typed form fields. Either every file lands or nothing is persisted, and
// a resubmission always resets the seller to pending for a fresh review.
func SubmitAdvancedDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentSeller(c, ctx)
		if err != nil {
			return
		}

		var req models.AdvancedDetailsRequest
		if err := c.ShouldBind(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if problems := req.Validate(); len(problems) > 0 {
			util.HandleError(c, http.StatusBadRequest, errors.New(strings.Join(problems, "; ")))
			return
		}

		groups, err := helpers.HandleDocumentGroups(c, "greenmart/sellers/"+seller.ID.Hex(),
			"shopImages", "brandAssociations", "purchaseBills")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		byField := make(map[string][]string, len(groups))
		for _, g := range groups {
			byField[g.Field] = g.Urls
		}
		if len(byField["shopImages"]) == 0 {
			helpers.DestroyDocumentGroups(groups)
			util.HandleError(c, http.StatusBadRequest, errors.New("at least one shop image is required"))
			return
		}

		docs := models.BrandDocuments{
			ShopImages:        byField["shopImages"],
			BrandAssociations: byField["brandAssociations"],
			PurchaseBills:     byField["purchaseBills"],
			GstNumber:         req.GstNumber,
			SourceDetails:     req.SourceDetails,
		}

		res, err := common.SellerCollection.UpdateOne(ctx,
			bson.M{"_id": seller.ID},
			bson.M{"$set": bson.M{
				"seller_type":     req.SellerType,
				"categories":      req.Categories,
				"sells_brands":    req.SellsBrands,
				"brand_documents": docs,
				"status":          models.SellerStatusPending,
				"modified_at":     now,
			}},
		)
		if err != nil {
			helpers.DestroyDocumentGroups(groups)
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.MatchedCount == 0 {
			helpers.DestroyDocumentGroups(groups)
			util.HandleError(c, http.StatusNotFound, errors.New("seller not found"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateSeller, seller.ID.Hex())
		util.HandleSuccess(c, http.StatusOK, "Details submitted, pending admin review", docs)
	}
}
