package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/internal/eco"
	"greenmart-io/api/internal/helpers"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mapFormToNewProduct reads the non-file product fields from the form.
func mapFormToNewProduct(formData func(key string) string) (models.NewProductRequest, error) {
	var req models.NewProductRequest

	price, err := strconv.ParseFloat(formData("price"), 64)
	if err != nil {
		return req, errors.New("invalid price")
	}
	quantity, err := strconv.Atoi(formData("quantity"))
	if err != nil {
		quantity = 0
	}

	var sizes []string
	if raw := formData("sizes"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				sizes = append(sizes, trimmed)
			}
		}
	}

	req = models.NewProductRequest{
		Name:        strings.TrimSpace(formData("name")),
		Description: strings.TrimSpace(formData("description")),
		Price:       price,
		Category:    formData("category"),
		SubCategory: formData("subCategory"),
		Sizes:       sizes,
		Quantity:    quantity,
		Bestseller:  formData("bestseller") == "true",
		EcoClaimed:  formData("ecoClaimed") == "true",
		EcoLabel:    formData("ecoLabel"),
	}

	return req, nil
}

// buildProduct turns a validated request plus uploaded image urls into the
// embedded product document, running the eco classifier when a claim is made.
func buildProduct(ctx context.Context, req models.NewProductRequest, images []string, now time.Time) models.Product {
	product := models.Product{
		Id:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Sizes:       req.Sizes,
		Images:      images,
		Reviews:     []models.Review{},
		Price:       req.Price,
		Quantity:    req.Quantity,
		Bestseller:  req.Bestseller,
		InStock:     req.Quantity > 0,
		EcoClaimed:  req.EcoClaimed,
		CreatedAt:   now,
	}

	if req.EcoClaimed {
		verdict, err := eco.NewClientFromEnv().Verify(ctx, eco.VerifyRequest{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			ClaimLabel:  req.EcoLabel,
			ImageURL:    images[0],
		})
		if err != nil {
			// Creation proceeds with the claim unverified; the seller can run
			// verification once the classifier is reachable again.
			util.LogWarning("eco classifier unavailable, product created unverified: " + err.Error())
			product.EcoClaim = models.EcoClaim{Label: req.EcoLabel}
			return product
		}
		product.EcoVerified = verdict.Verified
		product.EcoClaim = models.EcoClaim{
			Source:     models.EcoClaimSourceAI,
			Label:      verdict.Label,
			Confidence: verdict.Confidence,
			VerifiedAt: now,
		}
	}

	return product
}

// upsertProducts pushes products onto the seller's catalogue in one atomic
// write. The unique index on seller_id makes the upsert race-free: two
// concurrent first-writes collapse into one catalogue.
func upsertProducts(ctx context.Context, seller models.Seller, catName, category, subCategory string, products []models.Product, now time.Time) (models.Catalogue, error) {
	if catName == "" {
		catName = seller.ShopName
	}

	filter := bson.M{"seller_id": seller.ID}
	update := bson.M{
		"$push": bson.M{"products": bson.M{"$each": products}},
		"$set":  bson.M{"modified_at": now},
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"name":         catName,
			"slug":         slug.Make(catName),
			"category":     category,
			"sub_category": subCategory,
			"created_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cat models.Catalogue
	err := common.CatalogueCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cat)
	if err != nil {
		return models.Catalogue{}, err
	}

	return cat, nil
}

// AddProduct adds one product to the seller's catalogue, creating the
// catalogue on first use. Form fields plus 1-4 files under "images".
func AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentVerifiedSeller(c, ctx)
		if err != nil {
			return
		}

		req, err := mapFormToNewProduct(c.PostForm)
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		urls, results, err := common.UploadImageGroup(c, "images", "greenmart/products/"+seller.ID.Hex())
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		product := buildProduct(ctx, req, urls, now)

		cat, err := upsertProducts(ctx, seller, "", req.Category, req.SubCategory, []models.Product{product}, now)
		if err != nil {
			common.DestroyUploads(results)
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateCatalogue, cat.ID.Hex())
		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProducts, "")
		util.HandleSuccess(c, http.StatusCreated, "Product added successfully", gin.H{
			"catalogueId": cat.ID,
			"product":     product,
		})
	}
}

// CreateCatalogue bulk-creates products from one multipart form: a "data"
// field holding the JSON request, and for the i-th product its image files
// under "images<i>". All uploads must succeed before anything is written.
func CreateCatalogue() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		seller, err := common.CurrentVerifiedSeller(c, ctx)
		if err != nil {
			return
		}

		var req models.NewCatalogueRequest
		if err := json.Unmarshal([]byte(c.PostForm("data")), &req); err != nil {
			util.HandleError(c, http.StatusBadRequest, errors.Wrap(err, "invalid data field"))
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		folder := "greenmart/products/" + seller.ID.Hex()
		imageGroups := make([][]string, len(req.Products))
		var uploaded []uploader.UploadResult

		for i := range req.Products {
			field := "images" + strconv.Itoa(i)
			urls, results, err := common.UploadImageGroup(c, field, folder)
			if err != nil {
				common.DestroyUploads(uploaded)
				util.HandleError(c, http.StatusBadRequest, err)
				return
			}
			imageGroups[i] = urls
			uploaded = append(uploaded, results...)
		}

		products := make([]models.Product, len(req.Products))
		for i, p := range req.Products {
			products[i] = buildProduct(ctx, p, imageGroups[i], now)
		}

		cat, err := upsertProducts(ctx, seller, req.Name, req.Category, req.SubCategory, products, now)
		if err != nil {
			common.DestroyUploads(uploaded)
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateCatalogue, cat.ID.Hex())
		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProducts, "")
		util.HandleSuccess(c, http.StatusCreated, "Catalogue created successfully", cat)
	}
}

// GetMyProducts is the seller's own product listing, derived straight from
// their catalogue so there is never a second copy to drift.
func GetMyProducts() gin.HandlerFunc {
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
				util.HandleSuccess(c, http.StatusOK, "success", []models.PublicProduct{})
				return
			}
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", cat.Flatten(seller.ShopName))
	}
}

// DeleteProduct removes one product from the seller's catalogue and destroys
// its images.
func DeleteProduct() gin.HandlerFunc {
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

		_, err = common.CatalogueCollection.UpdateOne(ctx,
			bson.M{"_id": cat.ID},
			bson.M{
				"$pull": bson.M{"products": bson.M{"_id": productId}},
				"$set":  bson.M{"modified_at": now},
			},
		)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		for _, img := range product.Images {
			if _, err := util.DestroyMedia(util.PublicIDFromURL(img)); err != nil {
				util.LogWarning("failed to destroy product image: " + err.Error())
			}
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateCatalogue, cat.ID.Hex())
		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateProducts, "")
		util.HandleSuccess(c, http.StatusOK, "Product deleted successfully", productId)
	}
}

// productSortBson maps the public sort keys onto embedded product fields.
func productSortBson(sort string) bson.D {
	switch sort {
	case "price_asc":
		return bson.D{{Key: "products.price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "products.price", Value: -1}}
	case "created_at_asc":
		return bson.D{{Key: "products.created_at", Value: 1}}
	default:
		return bson.D{{Key: "products.created_at", Value: -1}}
	}
}

// GetProducts is the public storefront listing: every catalogue unwound into
// flat product rows, joined with the seller's shop name. Supports category,
// ecoVerified and text filters plus pagination.
func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		paginationArgs := helpers.GetPaginationArgs(c)

		match := bson.M{"products.in_stock": true}
		if category := c.Query("category"); category != "" {
			match["products.category"] = category
		}
		if c.Query("ecoVerified") == "true" {
			match["products.eco_verified"] = true
		}
		if search := c.Query("search"); search != "" {
			match["products.name"] = bson.M{"$regex": search, "$options": "i"}
		}

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$unwind", Value: "$products"}},
			bson.D{{Key: "$match", Value: match}},
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         "Seller",
				"localField":   "seller_id",
				"foreignField": "_id",
				"as":           "seller",
			}}},
			bson.D{{Key: "$unwind", Value: "$seller"}},
			bson.D{{Key: "$project", Value: bson.M{
				"_id":         0,
				"productId":   "$products._id",
				"catalogueId": "$_id",
				"sellerId":    "$seller_id",
				"sellerName":  "$seller.shop_name",
				"name":        "$products.name",
				"description": "$products.description",
				"price":       "$products.price",
				"category":    "$products.category",
				"subCategory": "$products.sub_category",
				"sizes":       "$products.sizes",
				"images":      "$products.images",
				"quantity":    "$products.quantity",
				"bestseller":  "$products.bestseller",
				"inStock":     "$products.in_stock",
				"ecoVerified": "$products.eco_verified",
				"ecoClaim":    "$products.eco_claim",
				"addedOn":     "$products.created_at",
			}}},
			bson.D{{Key: "$sort", Value: productSortBson(paginationArgs.Sort)}},
			bson.D{{Key: "$skip", Value: paginationArgs.Skip}},
			bson.D{{Key: "$limit", Value: paginationArgs.Limit}},
		}

		cursor, err := common.CatalogueCollection.Aggregate(ctx, pipeline)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var products []bson.M
		if err := cursor.All(ctx, &products); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccessMeta(c, http.StatusOK, "success", products, gin.H{
			"pagination": util.Pagination{
				Limit: paginationArgs.Limit,
				Skip:  paginationArgs.Skip,
				Count: int64(len(products)),
			},
		})
	}
}

// GetLatestProducts returns the newest products across all catalogues.
func GetLatestProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$unwind", Value: "$products"}},
			bson.D{{Key: "$match", Value: bson.M{"products.in_stock": true}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "products.created_at", Value: -1}}}},
			bson.D{{Key: "$limit", Value: limit}},
			bson.D{{Key: "$project", Value: bson.M{
				"_id":         0,
				"productId":   "$products._id",
				"catalogueId": "$_id",
				"sellerId":    "$seller_id",
				"name":        "$products.name",
				"price":       "$products.price",
				"images":      "$products.images",
				"ecoVerified": "$products.eco_verified",
				"addedOn":     "$products.created_at",
			}}},
		}

		cursor, err := common.CatalogueCollection.Aggregate(ctx, pipeline)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		defer cursor.Close(ctx)

		var products []bson.M
		if err := cursor.All(ctx, &products); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", products)
	}
}

// GetProduct returns one public product with its reviews.
func GetProduct() gin.HandlerFunc {
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

		cat, product, err := common.ResolveProduct(ctx, catalogueId, productId)
		if err != nil {
			util.HandleError(c, http.StatusNotFound, err)
			return
		}

		seller, err := common.GetSellerById(ctx, cat.SellerId)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"product":     product,
			"catalogueId": cat.ID,
			"sellerId":    cat.SellerId,
			"sellerName":  seller.ShopName,
		})
	}
}
