package web

import (
	"net/http"
	"strconv"
	"strings"

	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/services"

	"github.com/rs/zerolog/hlog"
)

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, err := h.admin.ListPending(r.Context(), domain.PageRequest{Page: queryInt(r, "page"), Limit: queryInt(r, "limit")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"users": newEntryViews(page.Items), "pagination": newPagination(page)})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.UserListFilter{
		Search:      strings.TrimSpace(q.Get("search")),
		Occupation:  domain.OccupationType(q.Get("occupationType")),
		PageRequest: domain.PageRequest{Page: queryInt(r, "page"), Limit: queryInt(r, "limit")},
	}
	if v, err := strconv.ParseBool(q.Get("approved")); err == nil {
		f.Approved = &v
	}
	page, err := h.admin.ListUsers(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"users":      newEntryViews(page.Items),
		"total":      page.Total,
		"pagination": newPagination(page),
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "User not found.")
		return
	}
	if err := h.admin.Approve(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "User approved successfully!")
}

// Reject is idempotent: an unknown id still answers success.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "User not found.")
		return
	}
	if _, err := h.admin.Reject(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "User rejected and removed.")
}

func (h *Handler) ToggleSensitiveAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "User not found.")
		return
	}
	granted, err := h.admin.ToggleSensitiveAccess(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	verb := "revoked"
	if granted {
		verb = "granted"
	}
	writeOK(w, envelope{"message": "Sensitive access " + verb + ".", "canViewSensitive": granted})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"stats": stats})
}

// DownloadReport streams approved-or-pending registrations as CSV or JSON.
// Query: type=all|student|job|business, format=csv|json, village=<id>.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.ReportFilter
	if t := q.Get("type"); t != "" && t != "all" {
		f.Occupation = domain.OccupationType(t)
	}
	if v := queryInt64(r, "village"); v > 0 {
		f.VillageID = &v
	}

	rows, err := h.admin.Report(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if q.Get("format") == "json" {
		writeOK(w, envelope{"data": newReportViews(rows)})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ReportFilename(f, h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	if err := services.WriteReportCSV(w, rows); err != nil {
		// Headers are gone; all we can do is log.
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to write report")
	}
}
