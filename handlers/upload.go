package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khanhtoandng/me-sub001/internal/storage"
	"github.com/khanhtoandng/me-sub001/pkg/logger"
	"github.com/khanhtoandng/me-sub001/pkg/metrics"
	"github.com/khanhtoandng/me-sub001/pkg/response"
)

// DefaultMaxUploadBytes caps image uploads when nothing is configured.
const DefaultMaxUploadBytes = 5 << 20

const uploadPrefix = "images/"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadHandler stores images in the object store. A nil store answers 500.
type UploadHandler struct {
	store    storage.ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewUploadHandler(store storage.ObjectStore, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadHandler{store: store, maxBytes: maxBytes, now: time.Now}
}

func (h *UploadHandler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/upload", with(mw, h.Upload)...)
	rg.DELETE("/upload/*key", with(mw, h.Delete)...)
}

// with returns a fresh chain so sibling routes never share a backing array.
func with(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

// UploadResult is returned for a stored image.
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		response.Fail(c, http.StatusInternalServerError, storage.ErrNotConfigured.Error())
		return
	}
	// room for multipart headers on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		metrics.Uploads.WithLabelValues("invalid").Inc()
		response.Fail(c, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	if fh.Size > h.maxBytes {
		metrics.Uploads.WithLabelValues("invalid").Inc()
		response.Fail(c, http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.FromError(c, err)
		return
	}

	mt := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mt.String()]
	if !ok {
		metrics.Uploads.WithLabelValues("invalid").Inc()
		response.Fail(c, http.StatusBadRequest, "unsupported file type "+mt.String()+"; allowed: jpeg, png, gif, webp")
		return
	}

	key := fmt.Sprintf("%s%d/%s%s", uploadPrefix, h.now().UTC().Year(), uuid.NewString(), ext)
	ctx := c.Request.Context()
	if err := h.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String()); err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		response.FromError(c, fmt.Errorf("store upload: %w", err))
		return
	}
	u, err := h.store.URL(ctx, key)
	if err != nil {
		metrics.Uploads.WithLabelValues("error").Inc()
		response.FromError(c, err)
		return
	}
	metrics.Uploads.WithLabelValues("ok").Inc()
	logger.Infof("upload: stored %s (%d bytes)", key, len(data))
	response.OK(c, http.StatusCreated, UploadResult{Key: key, URL: u, ContentType: mt.String(), Size: int64(len(data))})
}

func (h *UploadHandler) Delete(c *gin.Context) {
	if h.store == nil {
		response.Fail(c, http.StatusInternalServerError, storage.ErrNotConfigured.Error())
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !validObjectKey(key) {
		response.Fail(c, http.StatusBadRequest, "invalid object key")
		return
	}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Envelope{Success: true})
}

// validObjectKey only accepts clean keys below the image prefix.
func validObjectKey(key string) bool {
	return strings.HasPrefix(key, uploadPrefix) && path.Clean(key) == key && !strings.Contains(key, "..")
}
