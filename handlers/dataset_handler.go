package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"bailbridge-backend/reference"
	"bailbridge-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxDatasetSize bounds an uploaded dataset file
const MaxDatasetSize = 10 * 1024 * 1024

// ServeSampleDataset handles GET /bns_sections.csv with the bundled dataset
func ServeSampleDataset(c *gin.Context) {
	c.Data(http.StatusOK, "text/csv; charset=utf-8", reference.SampleDataset())
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// DatasetHandler manages the dataset object in object storage
type DatasetHandler struct {
	storage          storage.Storage
	key              string
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewDatasetHandler creates a new dataset handler for key in store
func NewDatasetHandler(store storage.Storage, key string) *DatasetHandler {
	if key == "" {
		key = reference.DefaultObjectKey
	}
	return &DatasetHandler{
		storage:     store,
		key:         key,
		maxFileSize: MaxDatasetSize,
		allowedMimeTypes: map[string]bool{
			"text/csv":                 true,
			"text/plain":               true,
			"application/vnd.ms-excel": true, // browsers label .csv this way on Windows
			"application/octet-stream": true,
		},
	}
}

// UploadDataset handles PUT /api/reference/dataset
func (h *DatasetHandler) UploadDataset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "MISSING_FILE",
			"message": "File is required",
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "FILE_TOO_LARGE",
			"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" && strings.EqualFold(path.Ext(fileHeader.Filename), ".csv") {
		mimeType = "text/csv"
	}
	if !h.allowedMimeTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "INVALID_FILE_TYPE",
			"message": fmt.Sprintf("File type %q is not allowed", mimeType),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "FILE_OPEN_ERROR",
			"message": err.Error(),
		})
		return
	}
	defer file.Close()

	storedKey, err := h.storage.Upload(c.Request.Context(), h.key, file)
	if err != nil {
		zap.L().Error("handlers: upload dataset", zap.String("key", h.key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "UPLOAD_FAILED",
			"message": "Failed to store dataset",
		})
		return
	}

	zap.L().Info("dataset replaced", zap.String("key", storedKey), zap.Int64("bytes", fileHeader.Size))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"key":     storedKey,
		"size":    fileHeader.Size,
	})
}

// DownloadDataset handles GET /api/reference/dataset
func (h *DatasetHandler) DownloadDataset(c *gin.Context) {
	rc, err := h.storage.Download(c.Request.Context(), h.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "DATASET_NOT_FOUND",
				"message": "No dataset has been uploaded",
			})
			return
		}
		zap.L().Error("handlers: download dataset", zap.String("key", h.key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "DOWNLOAD_FAILED",
			"message": "Failed to read dataset",
		})
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		zap.L().Warn("handlers: stream dataset", zap.Error(err))
	}
}

// AdminToken guards a route with a static bearer token
func AdminToken(token string) gin.HandlerFunc {
	want := []byte("Bearer " + token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "UNAUTHORIZED",
				"message": "Invalid or missing admin token",
			})
			return
		}
		c.Next()
	}
}
