package web

import (
	"net/http"
	"strings"

	"CommunityDirectory/internal/core/domain"
)

// Villages answers a flat list, or a map keyed "district - taluka" when
// grouped=true.
func (h *Handler) Villages(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		groups, err := h.reference.GroupedVillages(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		byKey := make(map[string][]domain.Village, len(groups))
		for _, g := range groups {
			byKey[g.Key] = g.Villages
		}
		writeOK(w, envelope{"villages": byKey})
		return
	}
	villages, err := h.reference.Villages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"villages": villages})
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.reference.Cities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"cities": cities})
}

func (h *Handler) Colleges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := q.Get("cityName")
	if city == "" {
		city = q.Get("city")
	}
	colleges, err := h.reference.Colleges(r.Context(), domain.CollegeFilter{
		CityName: strings.TrimSpace(city),
		CityID:   queryInt64(r, "cityId"),
		Course:   strings.TrimSpace(q.Get("course")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"colleges": colleges})
}

func (h *Handler) CollegeCourses(w http.ResponseWriter, r *http.Request) {
	id := queryInt64(r, "collegeId")
	if id <= 0 {
		writeOK(w, envelope{"courses": []string{}})
		return
	}
	courses, err := h.reference.CollegeCourses(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"courses": courses})
}

func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.reference.Departments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"departments": deps})
}

func (h *Handler) SubDepartments(w http.ResponseWriter, r *http.Request) {
	subs, err := h.reference.SubDepartments(r.Context(), queryInt64(r, "departmentId"), strings.TrimSpace(r.URL.Query().Get("department")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"subDepartments": subs})
}

func (h *Handler) BusinessTypes(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, envelope{"businessTypes": h.reference.BusinessTypes()})
}

func (h *Handler) BusinessFields(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, envelope{"businessFields": h.reference.BusinessFields()})
}

func (h *Handler) JobFields(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, envelope{"jobFields": h.reference.JobFields()})
}

func (h *Handler) Years(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, envelope{"years": h.reference.Years()})
}

func (h *Handler) PublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directory.PublicStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"stats": stats})
}
