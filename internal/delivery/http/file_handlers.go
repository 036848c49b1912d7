package http

import (
	"fmt"
	"io"
	"learnhub-backend/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileHandler fronts the asset store. Uploads return the opaque content path
// that chapters and course images reference; the rest of the system never
// sees storage details.
type FileHandler struct {
	assets repository.AssetStore
}

func NewFileHandler(assets repository.AssetStore) *FileHandler {
	return &FileHandler{assets: assets}
}

// UploadFile handles a standalone upload and returns the content path.
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	info, err := h.assets.Upload(c.Request.Context(), file, header, repository.AssetMetadata{
		UploadedBy: userID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file": gin.H{
			"id":           info.ID,
			"filename":     info.Filename,
			"content_type": info.ContentType,
			"size":         info.Size,
			"content_path": info.ContentPath(),
		},
	})
}

// StreamFile streams an asset back to the client. Videos, PDFs and images
// are viewable inline.
func (h *FileHandler) StreamFile(c *gin.Context) {
	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File ID is required"})
		return
	}

	stream, info, err := h.assets.Download(c.Request.Context(), fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", info.Size))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", info.Metadata.OriginalName))

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers already sent, nothing to report to the client.
		fmt.Printf("Error streaming file: %v\n", err)
	}
}

// DeleteFile removes an asset from the store.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File ID is required"})
		return
	}

	if err := h.assets.Delete(c.Request.Context(), fileID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// UploadFormAsset stores an optional multipart file field and returns its
// content path, or "" when the field is absent.
func (h *FileHandler) UploadFormAsset(c *gin.Context, field string, userID string, courseID uint) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	info, err := h.assets.Upload(c.Request.Context(), file, header, repository.AssetMetadata{
		UploadedBy: userID,
		CourseID:   courseID,
	})
	if err != nil {
		return "", err
	}
	return info.ContentPath(), nil
}
