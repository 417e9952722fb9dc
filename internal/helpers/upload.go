package helpers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"sync"

	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/gin-gonic/gin"
)

const (
	MAX_FILE_SIZE   = 10 << 20
	UPLOAD_ATTEMPTS = 3
)

// DocumentGroup is the outcome of uploading one named group of form files.
type DocumentGroup struct {
	Field   string
	Urls    []string
	Results []uploader.UploadResult
}

// uploadWithRetry pushes one file to the CDN, retrying transient failures.
func uploadWithRetry(fh *multipart.FileHeader, folder string) (uploader.UploadResult, error) {
	var lastErr error
	for attempt := 1; attempt <= UPLOAD_ATTEMPTS; attempt++ {
		file, err := fh.Open()
		if err != nil {
			return uploader.UploadResult{}, fmt.Errorf("error opening %s: %w", fh.Filename, err)
		}

		result, err := util.FileUpload(models.File{File: file}, folder)
		file.Close()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return uploader.UploadResult{}, fmt.Errorf("failed to upload %s after %d attempts: %w", fh.Filename, UPLOAD_ATTEMPTS, lastErr)
}

// DestroyDocumentGroups best-effort deletes every file of the given groups,
// used to roll back when the DB write after an upload fails.
func DestroyDocumentGroups(groups []DocumentGroup) {
	for _, g := range groups {
		for _, res := range g.Results {
			if res.PublicID == "" {
				continue
			}
			if _, err := util.DestroyMedia(res.PublicID); err != nil {
				util.LogWarning(fmt.Sprintf("failed to destroy uploaded media %s: %v", res.PublicID, err))
			}
		}
	}
}

// HandleDocumentGroups uploads every file of every named form field. Either
// all files of all groups land, or everything uploaded so far is destroyed
// and an error comes back, so a rejected submission leaves nothing behind.
func HandleDocumentGroups(c *gin.Context, folder string, fields ...string) ([]DocumentGroup, error) {
	if err := c.Request.ParseMultipartForm(MAX_FILE_SIZE); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	var (
		groups  = make([]DocumentGroup, len(fields))
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		cleanup []uploader.UploadResult
	)

	for gi, field := range fields {
		files := c.Request.MultipartForm.File[field]
		groups[gi] = DocumentGroup{
			Field:   field,
			Urls:    make([]string, len(files)),
			Results: make([]uploader.UploadResult, len(files)),
		}

		for fi, fileHeader := range files {
			wg.Add(1)
			go func(gi, fi int, fh *multipart.FileHeader) {
				defer wg.Done()

				result, err := uploadWithRetry(fh, folder)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				groups[gi].Urls[fi] = result.SecureURL
				groups[gi].Results[fi] = result
				cleanup = append(cleanup, result)
			}(gi, fi, fileHeader)
		}
	}

	wg.Wait()

	if len(errs) > 0 {
		for _, res := range cleanup {
			if res.PublicID == "" {
				continue
			}
			if _, err := util.DestroyMedia(res.PublicID); err != nil {
				util.LogWarning(fmt.Sprintf("failed to destroy uploaded media %s: %v", res.PublicID, err))
			}
		}

		errMsg := "failed to upload some documents:"
		for _, err := range errs {
			errMsg += "\n" + err.Error()
		}
		return nil, errors.New(errMsg)
	}

	return groups, nil
}
