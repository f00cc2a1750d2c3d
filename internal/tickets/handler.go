package tickets

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/pkg/response"
)

// Handler serves QR artifacts.
type Handler struct {
	artifacts ArtifactStore
	logger    *zap.Logger
}

// NewHandler creates a tickets handler.
func NewHandler(artifacts ArtifactStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{artifacts: artifacts, logger: logger}
}

// QR handles GET /qr/:id. A trailing .png on the id is accepted.
func (h *Handler) QR(c *gin.Context) {
	ticketID := strings.TrimSuffix(c.Param("id"), ".png")
	png, err := h.artifacts.Load(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			response.NotFound(c, "qr not found")
			return
		}
		h.logger.Error("qr load failed", zap.String("ticket_id", ticketID), zap.Error(err))
		response.Internal(c, "qr unavailable")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
