package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds Page so Offset cannot overflow.
	MaxPage = 100000
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is a slice of results plus pagination metadata.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// TotalPages is ceil(Total/Limit); zero when there are no results.
func (p Page[T]) TotalPages() int {
	if p.Total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// DirectoryFilter holds the AND-ed search predicates. Empty fields are
// ignored. String fields match as case-insensitive substrings except
// Department and Field, which match the whole value case-insensitively.
type DirectoryFilter struct {
	Village        string
	Occupation     OccupationType
	Name           string
	College        string // student college name
	Course         string // student department
	Specialization string // student sub-department
	Company        string // job company name
	JobField       string // job field
	BusinessType   string // business type
	Department     string // student department, whole value
	Field          string // variant field, whole value
	PageRequest
}

// DirectoryEntry is a user row denormalized for listing.
type DirectoryEntry struct {
	ID                    uuid.UUID
	FirstName             string
	MiddleName            string
	LastName              string
	Gender                string
	Phone                 string
	Email                 string
	CurrentAddress        string
	VillageID             *int64
	VillageName           string
	OccupationType        OccupationType
	Occupation            Occupation // nil when no detail row exists
	IsApproved            bool
	RegistrationCompleted bool
	CanViewSensitive      bool
	CreatedAt             time.Time
}

// RedactContacts strips phone and email for female members.
func (e *DirectoryEntry) RedactContacts() {
	if IsFemale(e.Gender) {
		e.Phone = ""
		e.Email = ""
	}
}

// UserListFilter drives the admin user listing.
type UserListFilter struct {
	Search     string // name, email or phone substring
	Occupation OccupationType
	Approved   *bool
	PageRequest
}

// AdminStats are the dashboard counters. Only completed registrations count.
type AdminStats struct {
	TotalUsers    int            `json:"totalUsers"`
	ApprovedUsers int            `json:"approvedUsers"`
	PendingUsers  int            `json:"pendingUsers"`
	Students      int            `json:"students"`
	Jobs          int            `json:"jobs"`
	Businesses    int            `json:"businesses"`
	VillageStats  []VillageCount `json:"villageStats"`
}

type VillageCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopVillages is how many villages the stats distribution keeps.
const TopVillages = 15

type PublicStats struct {
	TotalUsers            int `json:"totalUsers"`
	TotalStudents         int `json:"totalStudents"`
	TotalJobProfessionals int `json:"totalJobProfessionals"`
	TotalBusinessOwners   int `json:"totalBusinessOwners"`
	TotalVillages         int `json:"totalVillages"`
}

// ReportFilter selects rows for the admin export.
type ReportFilter struct {
	Occupation OccupationType // empty means all
	VillageID  *int64
}

// ReportRow is one exported registration.
type ReportRow struct {
	DirectoryEntry
	Taluka   string
	District string
}
