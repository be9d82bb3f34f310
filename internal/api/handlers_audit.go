package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// AuditHandler provides HTTP transport for the audit log.
type AuditHandler struct {
	svc *services.AuditService
}

func NewAuditHandler(svc *services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List GET /api/audit
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	f := services.AuditFilters{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		UserID:     q.Get("user_id"),
		Limit:      limit,
		Offset:     offset,
	}
	if t, ok := parseTimeParam(q.Get("start")); ok {
		f.Start = &t
	}
	if t, ok := parseTimeParam(q.Get("end")); ok {
		f.End = &t
	}
	respond.WriteData(w, http.StatusOK, h.svc.GetAuditLog(r.Context(), f))
}

// Report GET /api/audit/report
func (h *AuditHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var start, end *time.Time
	if t, ok := parseTimeParam(q.Get("start")); ok {
		start = &t
	}
	if t, ok := parseTimeParam(q.Get("end")); ok {
		end = &t
	}
	respond.WriteData(w, http.StatusOK, h.svc.GenerateComplianceReport(r.Context(), start, end))
}

// Purge POST /api/audit/purge?days=N
func (h *AuditHandler) Purge(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 0 {
		respond.WriteBadRequest(w, "days query parameter must be a non-negative integer")
		return
	}
	removed, err := h.svc.PurgeOlderThan(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func parseTimeParam(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
