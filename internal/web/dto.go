package web

import (
	"encoding/json"
	"time"

	"CommunityDirectory/internal/core/domain"

	"github.com/google/uuid"
)

// Requests.

type signupRequest struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyOTPRequest struct {
	Ref     string `json:"ref"`
	Contact string `json:"contact"`
	OTP     string `json:"otp" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=email phone"`
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" validate:"required"`
}

func (r loginRequest) identifier() string {
	for _, v := range []string{r.EmailOrPhone, r.Email, r.Phone} {
		if v != "" {
			return v
		}
	}
	return ""
}

type refRequest struct {
	Ref  string `json:"ref" validate:"required"`
	Type string `json:"type" validate:"omitempty,oneof=email phone"`
}

// occupationPayload carries the one variant object the form submits.
type occupationPayload struct {
	StudentDetails  json.RawMessage `json:"studentDetails"`
	JobDetails      json.RawMessage `json:"jobDetails"`
	BusinessDetails json.RawMessage `json:"businessDetails"`
}

func (p occupationPayload) raw(t domain.OccupationType) json.RawMessage {
	switch t {
	case domain.OccupationStudent:
		return p.StudentDetails
	case domain.OccupationJob:
		return p.JobDetails
	case domain.OccupationBusiness:
		return p.BusinessDetails
	}
	return nil
}

type registerRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName" validate:"required"`
	Gender         string `json:"gender" validate:"required"`
	VillageID      int64  `json:"villageId" validate:"required,gt=0"`
	CurrentAddress string `json:"currentAddress" validate:"required"`
	OccupationType string `json:"occupationType" validate:"required,oneof=student job business"`
	occupationPayload
}

func (r registerRequest) profile() domain.ProfileInput {
	return domain.ProfileInput{
		FirstName:      r.FirstName,
		MiddleName:     r.MiddleName,
		LastName:       r.LastName,
		Gender:         r.Gender,
		VillageID:      r.VillageID,
		CurrentAddress: r.CurrentAddress,
	}
}

type updateProfileRequest struct {
	FirstName      *string `json:"firstName"`
	MiddleName     *string `json:"middleName"`
	LastName       *string `json:"lastName"`
	Gender         *string `json:"gender"`
	VillageID      *int64  `json:"villageId" validate:"omitempty,gt=0"`
	CurrentAddress *string `json:"currentAddress"`
	ProfilePhoto   *string `json:"profilePhoto" validate:"omitempty,url"`
	occupationPayload
}

func (r updateProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		FirstName:      r.FirstName,
		MiddleName:     r.MiddleName,
		LastName:       r.LastName,
		Gender:         r.Gender,
		VillageID:      r.VillageID,
		CurrentAddress: r.CurrentAddress,
		ProfilePhoto:   r.ProfilePhoto,
	}
}

type changeOccupationRequest struct {
	NewOccupationType string `json:"newOccupationType" validate:"required,oneof=student job business"`
	occupationPayload
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Responses.

type userView struct {
	ID                    uuid.UUID                `json:"id"`
	FirstName             string                   `json:"firstName"`
	MiddleName            string                   `json:"middleName"`
	LastName              string                   `json:"lastName"`
	Gender                string                   `json:"gender"`
	Email                 string                   `json:"email"`
	Phone                 string                   `json:"phone"`
	VillageID             *int64                   `json:"villageId"`
	VillageName           string                   `json:"villageName"`
	CurrentAddress        string                   `json:"currentAddress"`
	OccupationType        domain.OccupationType    `json:"occupationType"`
	ProfilePhoto          string                   `json:"profilePhoto"`
	PhoneVerified         bool                     `json:"phoneVerified"`
	EmailVerified         bool                     `json:"emailVerified"`
	RegistrationCompleted bool                     `json:"registrationCompleted"`
	IsApproved            bool                     `json:"isApproved"`
	IsAdmin               bool                     `json:"isAdmin"`
	CanViewSensitive      bool                     `json:"canViewSensitive"`
	State                 domain.RegistrationState `json:"state"`
	OccupationDetails     domain.Occupation        `json:"occupationDetails,omitempty"`
}

func newUserView(u *domain.User, occ domain.Occupation) userView {
	return userView{
		ID:                    u.ID,
		FirstName:             u.FirstName,
		MiddleName:            u.MiddleName,
		LastName:              u.LastName,
		Gender:                u.Gender,
		Email:                 u.Email,
		Phone:                 u.Phone,
		VillageID:             u.VillageID,
		VillageName:           u.VillageName,
		CurrentAddress:        u.CurrentAddress,
		OccupationType:        u.OccupationType,
		ProfilePhoto:          u.ProfilePhoto,
		PhoneVerified:         u.PhoneVerified,
		EmailVerified:         u.EmailVerified,
		RegistrationCompleted: u.RegistrationCompleted,
		IsApproved:            u.IsApproved,
		IsAdmin:               u.IsAdmin,
		CanViewSensitive:      u.CanViewSensitive,
		State:                 u.State(),
		OccupationDetails:     occ,
	}
}

// entryView omits phone and email when they were redacted.
type entryView struct {
	ID                    uuid.UUID             `json:"id"`
	FirstName             string                `json:"firstName"`
	MiddleName            string                `json:"middleName"`
	LastName              string                `json:"lastName"`
	Gender                string                `json:"gender"`
	Phone                 string                `json:"phone,omitempty"`
	Email                 string                `json:"email,omitempty"`
	CurrentAddress        string                `json:"currentAddress"`
	VillageID             *int64                `json:"villageId"`
	VillageName           string                `json:"villageName"`
	OccupationType        domain.OccupationType `json:"occupationType"`
	OccupationDetails     domain.Occupation     `json:"occupationDetails"`
	IsApproved            bool                  `json:"isApproved"`
	RegistrationCompleted bool                  `json:"registrationCompleted"`
	CanViewSensitive      bool                  `json:"canViewSensitive"`
	CreatedAt             time.Time             `json:"createdAt"`
	Taluka                string                `json:"taluka,omitempty"`
	District              string                `json:"district,omitempty"`
}

func newEntryView(e *domain.DirectoryEntry) entryView {
	return entryView{
		ID:                    e.ID,
		FirstName:             e.FirstName,
		MiddleName:            e.MiddleName,
		LastName:              e.LastName,
		Gender:                e.Gender,
		Phone:                 e.Phone,
		Email:                 e.Email,
		CurrentAddress:        e.CurrentAddress,
		VillageID:             e.VillageID,
		VillageName:           e.VillageName,
		OccupationType:        e.OccupationType,
		OccupationDetails:     e.Occupation,
		IsApproved:            e.IsApproved,
		RegistrationCompleted: e.RegistrationCompleted,
		CanViewSensitive:      e.CanViewSensitive,
		CreatedAt:             e.CreatedAt,
	}
}

func newEntryViews(entries []domain.DirectoryEntry) []entryView {
	out := make([]entryView, 0, len(entries))
	for i := range entries {
		out = append(out, newEntryView(&entries[i]))
	}
	return out
}

func newReportViews(rows []domain.ReportRow) []entryView {
	out := make([]entryView, 0, len(rows))
	for i := range rows {
		v := newEntryView(&rows[i].DirectoryEntry)
		v.Taluka = rows[i].Taluka
		v.District = rows[i].District
		out = append(out, v)
	}
	return out
}

type paginationView struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func newPagination[T any](p domain.Page[T]) paginationView {
	return paginationView{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages()}
}
