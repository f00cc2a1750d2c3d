package registrations

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/internal/models"
	"github.com/alumni-reunion/backend/internal/store"
)

func newTestRouter(t *testing.T, caps Capacities) (*gin.Engine, *store.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewMemStore()
	svc := NewService(st, caps, &fakeIssuer{}, zap.NewNop())
	h := NewHandler(svc, zap.NewNop())

	r := gin.New()
	r.POST("/submit", h.Submit)
	r.GET("/stats", h.Stats)
	r.GET("/ticket/:id", h.Ticket)
	r.GET("/admin/registrations", h.AdminList)
	r.GET("/admin/registrations.csv", h.AdminExportCSV)
	r.GET("/admin/registrations/:id", h.AdminLookup)
	return r, st
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{"name":"Nguyen Van A","phone":"0901234567","email":"a@example.com",
	"className":"12A3","graduationYear":"1998 - 2001","sessions":["ceremony"]}`

func TestSubmitEndpoint_Success(t *testing.T) {
	r, st := newTestRouter(t, nil)

	w := postJSON(r, "/submit", validBody)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			TicketID  string `json:"ticketId"`
			TicketURL string `json:"ticketUrl"`
			QRURL     string `json:"qrUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.Data.TicketID)
	require.True(t, strings.HasPrefix(body.Data.TicketURL, "https://"))
	require.Equal(t, "/qr/"+body.Data.TicketID, body.Data.QRURL)

	recs, _ := st.LoadAll(context.Background())
	require.Len(t, recs, 1)
}

func TestSubmitEndpoint_HoneypotGeneric400(t *testing.T) {
	r, st := newTestRouter(t, nil)

	body := strings.Replace(validBody, `"name"`, `"website":"spam","name"`, 1)
	w := postJSON(r, "/submit", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "bad request")
	// No hint about honeypot detection.
	require.NotContains(t, strings.ToLower(w.Body.String()), "honeypot")

	recs, _ := st.LoadAll(context.Background())
	require.Empty(t, recs)
}

func TestSubmitEndpoint_ValidationSpecificMessage(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	body := strings.Replace(validBody, "a@example.com", "nope", 1)
	w := postJSON(r, "/submit", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "email")
}

func TestSubmitEndpoint_CapacityConflict(t *testing.T) {
	r, _ := newTestRouter(t, Capacities{models.SessionCeremony: 1})

	require.Equal(t, http.StatusOK, postJSON(r, "/submit", validBody).Code)

	w := postJSON(r, "/submit", validBody)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "ceremony")
}

func TestSubmitEndpoint_FormEncoded(t *testing.T) {
	r, st := newTestRouter(t, nil)

	form := "name=B&phone=0901234567&email=b@example.com&className=12B&graduationYear=1999&sessions=ceremony&sessions=sports"
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	recs, _ := st.LoadAll(context.Background())
	require.Len(t, recs, 1)
	require.Equal(t, []models.SessionTag{models.SessionCeremony, models.SessionSports}, recs[0].Sessions)
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, Capacities{models.SessionCeremony: 200})

	require.Equal(t, http.StatusOK, postJSON(r, "/submit", validBody).Code)

	w := get(r, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Ceremony         int `json:"ceremony"`
		Festival         int `json:"festival"`
		Sports           int `json:"sports"`
		CapacityCeremony int `json:"capacityCeremony"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Ceremony)
	require.Equal(t, 0, stats.Festival)
	require.Equal(t, 200, stats.CapacityCeremony)
}

func TestTicketEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/submit", validBody)
	var body struct {
		Data struct {
			TicketID string `json:"ticketId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	w = get(r, "/ticket/"+body.Data.TicketID)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), body.Data.TicketID)
	// Public view hides contact details.
	require.NotContains(t, w.Body.String(), "a@example.com")
	require.NotContains(t, w.Body.String(), "0901234567")

	require.Equal(t, http.StatusNotFound, get(r, "/ticket/unknown").Code)
}

func TestAdminList(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, postJSON(r, "/submit", validBody).Code)

	w := get(r, "/admin/registrations")
	require.Equal(t, http.StatusOK, w.Code)
	// Admin view includes full contact detail.
	require.Contains(t, w.Body.String(), "a@example.com")
}

func TestAdminLookup(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := postJSON(r, "/submit", validBody)
	var body struct {
		Data struct {
			TicketID string `json:"ticketId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	w = get(r, "/admin/registrations/"+body.Data.TicketID)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "a@example.com")

	require.Equal(t, http.StatusNotFound, get(r, "/admin/registrations/unknown").Code)
}

func TestAdminExportCSV(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, postJSON(r, "/submit", validBody).Code)

	w := get(r, "/admin/registrations.csv")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one record
	require.Equal(t, csvHeader, rows[0])
	require.Equal(t, "Nguyen Van A", rows[1][2])
	require.Equal(t, "ceremony", rows[1][7])
}
