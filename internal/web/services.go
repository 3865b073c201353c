package web

import (
	"context"

	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/services"

	"github.com/google/uuid"
)

// The handlers depend on these narrow views of the core services.

type AuthService interface {
	Signup(ctx context.Context, phone, email, password string) (*services.Challenge, error)
	VerifyContact(ctx context.Context, ref, contact, code string, purpose domain.OTPPurpose) (string, error)
	Login(ctx context.Context, identifier, password string) (*services.Challenge, error)
	CompleteLogin(ctx context.Context, ref string) (*services.LoginResult, error)
	ResendOTP(ctx context.Context, ref string, purpose domain.OTPPurpose) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*domain.User, error)
}

type RegistrationService interface {
	CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error
	ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error
	UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, occPatch []byte) error
	Profile(ctx context.Context, id uuid.UUID) (*services.Profile, error)
}

type DirectoryService interface {
	Search(ctx context.Context, f domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error)
	Member(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error)
	PublicStats(ctx context.Context) (*domain.PublicStats, error)
}

type AdminService interface {
	ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error)
	ListUsers(ctx context.Context, f domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*domain.AdminStats, error)
	Report(ctx context.Context, f domain.ReportFilter) ([]domain.ReportRow, error)
}

type ReferenceService interface {
	Villages(ctx context.Context) ([]domain.Village, error)
	GroupedVillages(ctx context.Context) ([]services.VillageGroup, error)
	Cities(ctx context.Context) ([]domain.City, error)
	Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error)
	CollegeCourses(ctx context.Context, collegeID int64) ([]string, error)
	Departments(ctx context.Context) ([]domain.Department, error)
	SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error)
	BusinessTypes() []string
	BusinessFields() []string
	JobFields() []string
	Years() []int
}

var (
	_ AuthService         = (*services.AuthService)(nil)
	_ RegistrationService = (*services.RegistrationService)(nil)
	_ DirectoryService    = (*services.DirectoryService)(nil)
	_ AdminService        = (*services.AdminService)(nil)
	_ ReferenceService    = (*services.ReferenceService)(nil)
)
