package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mechanio/services/storage"

	"github.com/gin-gonic/gin"
)

// StorageHandler handles evidence image uploads for budgets, disapprovals
// and disputes.
type StorageHandler struct {
	StorageSvc storage.StorageService
}

func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{StorageSvc: svc}
}

// allowedBuckets defines permitted buckets for image uploads.
var allowedBuckets = map[string]bool{
	"budgets":      true,
	"disapprovals": true,
	"disputes":     true,
}

// UploadImageHandler receives one image and returns its public id and URL.
func (h *StorageHandler) UploadImageHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	if !allowedBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'budgets', 'disapprovals' and 'disputes'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "detail": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	destFolder := "evidence/" + bucket

	publicID, err := h.StorageSvc.UploadImage(c, tempFilePath, destFolder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image", "detail": err.Error()})
		return
	}

	downloadURL, err := h.StorageSvc.GetDownloadURL(c, publicID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to construct download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publicID":    publicID,
		"downloadURL": downloadURL,
	})
}

// GetDownloadURLHandler generates a signed download URL for a stored image.
func (h *StorageHandler) GetDownloadURLHandler(c *gin.Context) {
	bucket := c.Param("bucket")
	filename := c.Param("filename")
	if !allowedBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'budgets', 'disapprovals' and 'disputes'"})
		return
	}

	destPath := "evidence/" + bucket + "/" + filename

	expiry := 15 * time.Minute
	if expStr := c.Query("expires"); expStr != "" {
		if exp, err := time.ParseDuration(expStr); err == nil {
			expiry = exp
		}
	}

	url, err := h.StorageSvc.GetDownloadURL(c, destPath, expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download URL", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadURL": url})
}
