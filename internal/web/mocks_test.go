package web

import (
	"context"

	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, phone, email, password string) (*services.Challenge, error) {
	args := m.Called(ctx, phone, email, password)
	ch, _ := args.Get(0).(*services.Challenge)
	return ch, args.Error(1)
}

func (m *MockAuthService) VerifyContact(ctx context.Context, ref, contact, code string, purpose domain.OTPPurpose) (string, error) {
	args := m.Called(ctx, ref, contact, code, purpose)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*services.Challenge, error) {
	args := m.Called(ctx, identifier, password)
	ch, _ := args.Get(0).(*services.Challenge)
	return ch, args.Error(1)
}

func (m *MockAuthService) CompleteLogin(ctx context.Context, ref string) (*services.LoginResult, error) {
	args := m.Called(ctx, ref)
	res, _ := args.Get(0).(*services.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthService) ResendOTP(ctx context.Context, ref string, purpose domain.OTPPurpose) error {
	return m.Called(ctx, ref, purpose).Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return m.Called(ctx, email, code, newPassword).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Session(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type MockRegistrationService struct{ mock.Mock }

func (m *MockRegistrationService) CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error {
	return m.Called(ctx, id, in, occ).Error(0)
}

func (m *MockRegistrationService) ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error {
	return m.Called(ctx, id, occ).Error(0)
}

func (m *MockRegistrationService) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, occPatch []byte) error {
	return m.Called(ctx, id, patch, occPatch).Error(0)
}

func (m *MockRegistrationService) Profile(ctx context.Context, id uuid.UUID) (*services.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*services.Profile)
	return p, args.Error(1)
}

type MockDirectoryService struct{ mock.Mock }

func (m *MockDirectoryService) Search(ctx context.Context, f domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}

func (m *MockDirectoryService) Member(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.DirectoryEntry)
	return e, args.Error(1)
}

func (m *MockDirectoryService) PublicStats(ctx context.Context) (*domain.PublicStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.PublicStats)
	return s, args.Error(1)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context, f domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}

func (m *MockAdminService) Approve(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminService) Reject(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminService) ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*domain.AdminStats)
	return s, args.Error(1)
}

func (m *MockAdminService) Report(ctx context.Context, f domain.ReportFilter) ([]domain.ReportRow, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]domain.ReportRow)
	return rows, args.Error(1)
}

type MockReferenceService struct{ mock.Mock }

func (m *MockReferenceService) Villages(ctx context.Context) ([]domain.Village, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Village)
	return v, args.Error(1)
}

func (m *MockReferenceService) GroupedVillages(ctx context.Context) ([]services.VillageGroup, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]services.VillageGroup)
	return g, args.Error(1)
}

func (m *MockReferenceService) Cities(ctx context.Context) ([]domain.City, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]domain.City)
	return c, args.Error(1)
}

func (m *MockReferenceService) Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error) {
	args := m.Called(ctx, f)
	c, _ := args.Get(0).([]domain.College)
	return c, args.Error(1)
}

func (m *MockReferenceService) CollegeCourses(ctx context.Context, collegeID int64) ([]string, error) {
	args := m.Called(ctx, collegeID)
	c, _ := args.Get(0).([]string)
	return c, args.Error(1)
}

func (m *MockReferenceService) Departments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]domain.Department)
	return d, args.Error(1)
}

func (m *MockReferenceService) SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error) {
	args := m.Called(ctx, departmentID, departmentName)
	d, _ := args.Get(0).([]domain.SubDepartment)
	return d, args.Error(1)
}

func (m *MockReferenceService) BusinessTypes() []string  { return m.Called().Get(0).([]string) }
func (m *MockReferenceService) BusinessFields() []string { return m.Called().Get(0).([]string) }
func (m *MockReferenceService) JobFields() []string      { return m.Called().Get(0).([]string) }
func (m *MockReferenceService) Years() []int             { return m.Called().Get(0).([]int) }
