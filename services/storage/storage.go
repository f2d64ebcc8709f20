package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadImage uploads an image to Cloudinary into the specified folder and
// returns the permanent public identifier.
func (s *StorageServiceImpl) UploadImage(ctx context.Context, localFilePath, destFolder string) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder: destFolder,
	}
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploadParams)
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	return result.PublicID, nil
}

// DeleteImage deletes an image from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteImage(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}

// GetDownloadURL generates a signed, short-lived URL for an image. The
// signature is SHA-1 over "expires_at" and "public_id" concatenated with the
// API secret, matching Cloudinary's authenticated delivery scheme.
func (s *StorageServiceImpl) GetDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error) {
	expiresAt := time.Now().Add(expires).Unix()
	stringToSign := fmt.Sprintf("expires_at=%d&public_id=%s%s", expiresAt, publicID, s.apiSecret)
	signature := computeSHA1(stringToSign)
	url := fmt.Sprintf(
		"https://res.cloudinary.com/%s/image/authenticated/s--%s--/v%d/%s",
		s.cloudName, signature[:8], expiresAt, publicID,
	)
	return url, nil
}

func computeSHA1(data string) string {
	h := sha1.New()
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
