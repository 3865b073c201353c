package web

import (
	"net/http"
	"strings"

	"CommunityDirectory/internal/core/domain"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	p, err := h.reg.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"user": newUserView(p.User, p.Occupation)})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// Only the variant matching the user's occupation is applied.
	if err := h.reg.UpdateProfile(r.Context(), user.ID, req.patch(), req.raw(user.OccupationType)); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Profile updated successfully")
}

func (h *Handler) ChangeOccupation(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	var req changeOccupationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := domain.OccupationType(req.NewOccupationType)
	occ, err := domain.DecodeOccupation(t, req.raw(t))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.reg.ChangeOccupation(r.Context(), user.ID, occ); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Occupation updated successfully")
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Password changed successfully")
}

// Search lists approved members. Women's contact details are stripped.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.DirectoryFilter{
		Village:        strings.TrimSpace(q.Get("village")),
		Occupation:     domain.OccupationType(strings.TrimSpace(q.Get("occupation"))),
		Name:           strings.TrimSpace(q.Get("name")),
		College:        strings.TrimSpace(q.Get("college")),
		Course:         strings.TrimSpace(q.Get("course")),
		Specialization: strings.TrimSpace(q.Get("specialization")),
		Company:        strings.TrimSpace(q.Get("company")),
		JobField:       strings.TrimSpace(q.Get("jobField")),
		BusinessType:   strings.TrimSpace(q.Get("businessType")),
		Department:     strings.TrimSpace(q.Get("department")),
		Field:          strings.TrimSpace(q.Get("field")),
		PageRequest:    domain.PageRequest{Page: queryInt(r, "page"), Limit: queryInt(r, "limit")},
	}
	page, err := h.directory.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"users": newEntryViews(page.Items), "pagination": newPagination(page)})
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, false, "User not found")
		return
	}
	entry, err := h.directory.Member(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"user": newEntryView(entry)})
}
