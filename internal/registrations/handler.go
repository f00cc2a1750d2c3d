package registrations

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
	"github.com/alumni-reunion/backend/pkg/response"
)

// Handler handles the public registration HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /submit. Accepts JSON or form bodies.
func (h *Handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, "bad request")
		return
	}
	meta := models.Meta{
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	}

	res, err := h.svc.Submit(c.Request.Context(), in, meta)
	if err != nil {
		var vErr *ValidationError
		var capErr *CapacityError
		var artErr *TicketArtifactError
		switch {
		case errors.Is(err, ErrMalformedInput):
			response.BadRequest(c, "bad request")
		case errors.As(err, &vErr):
			response.BadRequest(c, vErr.Error())
		case errors.As(err, &capErr):
			response.Conflict(c, capErr.Error(), gin.H{"session": capErr.Session})
		case errors.As(err, &artErr):
			h.logger.Error("submission persisted without ticket artifact",
				zap.String("ticket_id", artErr.TicketID), zap.Error(err))
			response.Internal(c, "ticket generation failed")
		default:
			h.logger.Error("submission failed", zap.Error(err))
			response.Internal(c, "registration failed")
		}
		return
	}
	response.OK(c, res)
}

// Stats handles GET /stats: per-session counts plus the ceremony cap, backing
// the public capacity display.
func (h *Handler) Stats(c *gin.Context) {
	counts, err := h.svc.CountBySession(c.Request.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		response.Internal(c, "stats unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ceremony":         counts[models.SessionCeremony],
		"festival":         counts[models.SessionFestival],
		"sports":           counts[models.SessionSports],
		"capacityCeremony": h.svc.CeremonyCapacity(),
	})
}

// Ticket handles GET /ticket/:id: public ticket page data.
func (h *Handler) Ticket(c *gin.Context) {
	rec, err := h.svc.GetByTicketID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("ticket lookup failed", zap.Error(err))
		response.Internal(c, "lookup failed")
		return
	}
	if rec == nil {
		response.NotFound(c, "ticket not found")
		return
	}
	// Public view: no contact details or audit metadata.
	response.OK(c, gin.H{
		"ticketId":      rec.TicketID,
		"name":          rec.Name,
		"className":     rec.ClassName,
		"sessions":      rec.Sessions,
		"timestamp":     rec.Timestamp,
		"checked_in_at": rec.CheckedInAt,
	})
}

// clientIP prefers proxy-set headers in the order the deployment's reverse
// proxies write them, falling back to gin's resolution.
func clientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
