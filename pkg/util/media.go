package util

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"greenmart-io/api/pkg/models"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func initCloudinary() (*cloudinary.Cloudinary, error) {
	cloudName := LoadEnvFor("CLOUDINARY_CLOUDNAME")
	apiKey := LoadEnvFor("CLOUDINARY_API_KEY")
	apiSecret := LoadEnvFor("CLOUDINARY_API_SECRET")
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return &cloudinary.Cloudinary{}, err
	}

	return cld, nil
}

// ImageUploadHelper uploads a single asset to the configured folder. The 40s
// bound is a hard failure past which the whole upload is treated as lost.
func ImageUploadHelper(input interface{}, folder string) (uploader.UploadResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Second)
	defer cancel()

	cld, err := initCloudinary()
	if err != nil {
		return uploader.UploadResult{}, err
	}

	if folder == "" {
		folder = LoadEnvFor("CLOUDINARY_UPLOAD_FOLDER")
	}
	uploadRes, err := cld.Upload.Upload(ctx, input, uploader.UploadParams{Folder: folder})
	if err != nil {
		return uploader.UploadResult{}, err
	}

	return *uploadRes, nil
}

func ImageDeletionHelper(params uploader.DestroyParams) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Second)
	defer cancel()

	cld, err := initCloudinary()
	if err != nil {
		return "", err
	}

	deleteResult, err := cld.Upload.Destroy(ctx, params)
	if err != nil {
		return "", err
	}
	return deleteResult.Result, nil
}

func FileUpload(file models.File, folder string) (uploader.UploadResult, error) {
	err := validate.Struct(file)
	if err != nil {
		return uploader.UploadResult{}, err
	}

	uploadRes, err := ImageUploadHelper(file.File, folder)
	if err != nil {
		return uploader.UploadResult{}, err
	}

	return uploadRes, nil
}

func DestroyMedia(id string) (string, error) {
	res, err := ImageDeletionHelper(uploader.DestroyParams{PublicID: id})
	if err != nil {
		return "", err
	}
	return res, nil
}

// PublicIDFromURL recovers the cloudinary public id from a delivery URL:
// everything after the upload/v<version>/ segment, minus the file extension.
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/upload/")
	if len(parts) != 2 {
		return ""
	}

	path := parts[1]
	if idx := strings.Index(path, "/"); idx != -1 && strings.HasPrefix(path, "v") {
		if _, err := strconv.Atoi(path[1:idx]); err == nil {
			path = path[idx+1:]
		}
	}

	if ext := filepath.Ext(path); ext != "" {
		path = strings.TrimSuffix(path, ext)
	}

	return path
}
