package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/metrics"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// UploadHandler accepts image attachments and serves them back from the
// upload directory as relative URLs.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) (*UploadHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadHandler{dir: dir}, nil
}

// Dir is the directory uploads are written to, for static serving.
func (h *UploadHandler) Dir() string { return h.dir }

// Upload validates the extension, writes the file, then re-verifies the
// actual content by signature. A file whose bytes are not an image is
// removed and rejected even with an allowed extension.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only images are allowed (png, jpg, jpeg, gif, webp)"})
		return
	}

	tmpName := uuid.New().String() + ext
	tmpPath := filepath.Join(h.dir, tmpName)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		log.Error().Err(err).Msg("upload: save file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	kind, err := mimetype.DetectFile(tmpPath)
	if err != nil || !strings.HasPrefix(kind.String(), "image/") {
		os.Remove(tmpPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not a recognized image"})
		return
	}

	finalExt := kind.Extension()
	if finalExt == "" {
		finalExt = ext
	}
	finalName := uuid.New().String() + finalExt
	finalPath := filepath.Join(h.dir, finalName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	metrics.UploadsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"url":  "/uploads/" + finalName,
		"type": "image",
		"mime": kind.String(),
	})
}
