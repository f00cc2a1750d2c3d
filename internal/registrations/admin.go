package registrations

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
	"github.com/alumni-reunion/backend/pkg/response"
)

// csvHeader matches the column set of the admin export.
var csvHeader = []string{"#", "timestamp", "name", "email", "phone", "className",
	"graduationYear", "sessions", "ip", "userAgent", "ticketId"}

// AdminList handles GET /admin/registrations: the full collection as JSON.
func (h *Handler) AdminList(c *gin.Context) {
	recs, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("admin list failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	if recs == nil {
		recs = []models.Registration{}
	}
	response.OK(c, recs)
}

// AdminLookup handles GET /admin/registrations/:id: staff ticket lookup with
// full record detail.
func (h *Handler) AdminLookup(c *gin.Context) {
	rec, err := h.svc.GetByTicketID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("admin lookup failed", zap.Error(err))
		response.Internal(c, "lookup failed")
		return
	}
	if rec == nil {
		response.NotFound(c, "ticket not found")
		return
	}
	response.OK(c, rec)
}

// AdminExportCSV handles GET /admin/registrations.csv.
func (h *Handler) AdminExportCSV(c *gin.Context) {
	recs, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
		response.Internal(c, "export failed")
		return
	}

	filename := fmt.Sprintf("registrations_%s.csv", time.Now().UTC().Format("2006-01-02_15-04-05"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)
	for i, rec := range recs {
		sessions := make([]string, len(rec.Sessions))
		for j, s := range rec.Sessions {
			sessions[j] = string(s)
		}
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			rec.Timestamp.Format(time.RFC3339),
			rec.Name,
			rec.Email,
			rec.Phone,
			rec.ClassName,
			rec.GraduationYear,
			strings.Join(sessions, "|"),
			rec.Meta.IP,
			rec.Meta.UserAgent,
			rec.TicketID,
		})
	}
	w.Flush()
}
