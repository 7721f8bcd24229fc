package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goabroad/internal/apperr"
)

// objectStorage abstracts the MinIO client so handler tests can fake it.
type objectStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	ObjectKeyFromURL(rawURL string) string
	DeleteObject(ctx context.Context, objectKey string) error
}

var imageExtWhitelist = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// imageUploader scans and stores the optional image file attached to job and
// program mutations, returning the public URL substituted into imageUrl.
type imageUploader struct {
	storage   objectStorage
	clamdAddr string
}

func (u imageUploader) upload(c *gin.Context, file *multipart.FileHeader, prefix string) (string, error) {
	if u.storage == nil {
		return "", apperr.New(http.StatusInternalServerError, "image storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtWhitelist[ext] {
		return "", apperr.Validation("unsupported image type")
	}

	if u.clamdAddr != "" {
		if err := u.scan(file); err != nil {
			return "", err
		}
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer reader.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	url, err := u.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (u imageUploader) scan(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open image for scan: %w", err)
	}

	clamdClient := clamd.NewClamd(u.clamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	reader.Close()
	if err != nil {
		return fmt.Errorf("scan image: %w", err)
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return apperr.Validation("malicious file detected")
		}
	}
	return nil
}

// deleteByURL removes a replaced image from the bucket. Failures are
// tolerable; the new URL is already persisted.
func (u imageUploader) deleteByURL(ctx context.Context, rawURL string) {
	if u.storage == nil || rawURL == "" {
		return
	}
	if key := u.storage.ObjectKeyFromURL(rawURL); key != "" {
		_ = u.storage.DeleteObject(ctx, key)
	}
}
