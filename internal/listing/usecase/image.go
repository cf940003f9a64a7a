package usecase

import (
	"context"
	"strings"

	"github.com/wanderstay/listing-service/internal/listing/domain"
)

// ImageUpload describes a file the boundary already accepted (the
// image-only MIME gate runs there, before this code ever sees bytes).
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStorage persists image bytes and returns the {url, storage key}
// pair the listing record carries.
type ImageStorage interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (domain.ListingImage, error)
}

// resolveImage turns an optional upload into a listing image, falling
// back to the fixed default pair when nothing was uploaded.
func (uc *ListingUsecase) resolveImage(ctx context.Context, upload *ImageUpload) (domain.ListingImage, error) {
	if upload == nil {
		return domain.ListingImage{
			URL:        domain.DefaultImageURL,
			StorageKey: domain.DefaultImageKey,
		}, nil
	}
	return uc.storage.Upload(ctx, upload.Filename, upload.ContentType, upload.Data)
}

// BlurredPreviewURL derives a small blurred variant for the edit form
// when the storage backend URL is transformable (Cloudinary-style paths).
// Other URLs are returned unchanged.
func BlurredPreviewURL(imageURL string) string {
	if strings.Contains(imageURL, "/upload") {
		return strings.Replace(imageURL, "/upload", "/upload/w_250/e_blur:100", 1)
	}
	return imageURL
}
