package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadService pushes user-supplied files to Cloudinary. Configured via
// the CLOUDINARY_URL environment variable.
type UploadService struct{}

// NewUploadService creates a new upload service
func NewUploadService() *UploadService {
	return &UploadService{}
}

// UploadImage uploads a chat image and returns its secure URL.
func (us *UploadService) UploadImage(file multipart.File, filename string) (string, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return "", err
	}

	result, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		ResourceType: "image",
		PublicID:     fmt.Sprintf("chat_images/%s_%d", filename, time.Now().Unix()),
	})
	if err != nil {
		return "", err
	}

	return result.SecureURL, nil
}

// UploadDocument uploads a contract document and returns its secure URL.
func (us *UploadService) UploadDocument(file multipart.File, filename string) (string, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return "", err
	}

	result, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		ResourceType: "raw",
		PublicID:     fmt.Sprintf("contracts/%s_%d", filename, time.Now().Unix()),
	})
	if err != nil {
		return "", err
	}

	return result.SecureURL, nil
}
