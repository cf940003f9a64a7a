package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/listing/domain"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// S3Storage persists listing images in a MinIO/S3 bucket and hands back
// the {url, storage key} pair the listing record carries.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing S3 MinIO storage",
		zap.String("endpoint", endpoint), zap.String("bucket", bucketName), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	// Create the bucket if it doesn't exist.
	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists == nil && exists {
			log.Info("S3Storage: bucket already exists", zap.String("bucket", bucketName))
		} else {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &S3Storage{
		client: client,
		bucket: bucketName,
		logger: log,
	}, nil
}

// Upload stores the file bytes under a generated object key and returns
// the resulting image pair.
func (s *S3Storage) Upload(ctx context.Context, originalFileName, contentType string, data []byte) (domain.ListingImage, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)

	s.logger.Info("S3Storage.Upload: uploading file",
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("original_filename", originalFileName),
		zap.Int("size_bytes", len(data)))

	uploadInfo, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("S3Storage.Upload: PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return domain.ListingImage{}, fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Info("S3Storage.Upload: file uploaded",
		zap.String("key", uploadInfo.Key), zap.String("url", fileURL), zap.Int64("size_uploaded", uploadInfo.Size))

	return domain.ListingImage{URL: fileURL, StorageKey: objectKey}, nil
}
