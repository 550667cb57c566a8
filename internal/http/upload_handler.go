package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medrag/internal/backend"
	"medrag/internal/domain"
	"medrag/internal/ingest"
)

// UploadHandler expone el flujo de ingesta de documentos sobre HTTP.
type UploadHandler struct {
	logger *zap.Logger
	svc    *ingest.Service
}

// NewUploadHandler crea una instancia de UploadHandler.
func NewUploadHandler(logger *zap.Logger, svc *ingest.Service) *UploadHandler {
	return &UploadHandler{logger: logger, svc: svc}
}

// Upload maneja POST /upload: formulario multipart con campo file y
// metadatos opcionales reenviados al backend de ingesta.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	meta := domain.UploadMetadata{
		Title:   c.PostForm("title"),
		Authors: c.PostForm("authors"),
		Journal: c.PostForm("journal"),
		URL:     c.PostForm("url"),
	}
	if yearStr := c.PostForm("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		meta.Year = year
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, file, meta)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"status": h.svc.Status(),
	})
}

// Status maneja GET /upload/status.
func (h *UploadHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"busy":   h.svc.Busy(),
		"status": h.svc.Status(),
	})
}

func (h *UploadHandler) writeUploadError(c *gin.Context, err error) {
	if errors.Is(err, ingest.ErrUploadInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var protoErr *backend.ProtocolError
	if errors.As(err, &protoErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  protoErr.Detail(),
			"status": h.svc.Status(),
		})
		return
	}

	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":  err.Error(),
		"status": h.svc.Status(),
	})
}
