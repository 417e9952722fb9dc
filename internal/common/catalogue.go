package common

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrCatalogueNotFound = errors.New("catalogue not found")
	ErrProductNotFound   = errors.New("product not found in catalogue")
)

func GetCatalogueById(ctx context.Context, id primitive.ObjectID) (models.Catalogue, error) {
	var cat models.Catalogue
	err := CatalogueCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Catalogue{}, ErrCatalogueNotFound
		}
		return models.Catalogue{}, err
	}

	return cat, nil
}

func GetCatalogueBySeller(ctx context.Context, sellerId primitive.ObjectID) (models.Catalogue, error) {
	var cat models.Catalogue
	err := CatalogueCollection.FindOne(ctx, bson.M{"seller_id": sellerId}).Decode(&cat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Catalogue{}, ErrCatalogueNotFound
		}
		return models.Catalogue{}, err
	}

	return cat, nil
}

// ResolveProduct loads a catalogue and locates one embedded product. Every
// cart, order and review path funnels through this lookup.
func ResolveProduct(ctx context.Context, catalogueId, productId primitive.ObjectID) (models.Catalogue, *models.Product, error) {
	cat, err := GetCatalogueById(ctx, catalogueId)
	if err != nil {
		return models.Catalogue{}, nil, err
	}

	product := cat.Product(productId)
	if product == nil {
		return models.Catalogue{}, nil, ErrProductNotFound
	}

	return cat, product, nil
}

// UploadImageGroup uploads every file posted under the given multipart field,
// preserving field order. Between 1 and 4 images are accepted. On any upload
// failure the already-uploaded files are destroyed before returning, so a
// failed call leaves nothing behind on the CDN.
func UploadImageGroup(c *gin.Context, field, folder string) ([]string, []uploader.UploadResult, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing multipart form: %w", err)
	}

	headers := form.File[field]
	if len(headers) < models.MinProductImages || len(headers) > models.MaxProductImages {
		return nil, nil, fmt.Errorf("field %q must carry between %d and %d images, got %d",
			field, models.MinProductImages, models.MaxProductImages, len(headers))
	}

	var (
		urls    = make([]string, len(headers))
		results = make([]uploader.UploadResult, len(headers))
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
	)

	for i, header := range headers {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			file, err := headers[idx].Open()
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("error opening %s: %w", name, err))
				mu.Unlock()
				return
			}
			defer file.Close()

			imageUpload, err := util.FileUpload(models.File{File: file}, folder)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("failed to upload %s: %w", name, err))
				mu.Unlock()
				return
			}

			urls[idx] = imageUpload.SecureURL
			results[idx] = imageUpload
		}(i, header.Filename)
	}

	wg.Wait()

	if len(errs) > 0 {
		DestroyUploads(results)
		errMsg := "failed to upload some images:"
		for _, err := range errs {
			errMsg += "\n" + err.Error()
		}
		return nil, nil, errors.New(errMsg)
	}

	return urls, results, nil
}

// DestroyUploads best-effort deletes uploaded media, used to roll back a
// partially-completed write.
func DestroyUploads(results []uploader.UploadResult) {
	for _, res := range results {
		if res.PublicID == "" {
			continue
		}
		if _, err := util.DestroyMedia(res.PublicID); err != nil {
			util.LogWarning(fmt.Sprintf("failed to destroy uploaded media %s: %v", res.PublicID, err))
		}
	}
}
