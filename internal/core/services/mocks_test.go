package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) getUser(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getUser(m.Called(ctx, id))
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getUser(m.Called(ctx, email))
}
func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return m.getUser(m.Called(ctx, phone))
}
func (m *MockUserRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, phone, email, passwordHash string) error {
	args := m.Called(ctx, id, phone, email, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepository) MarkContactVerified(ctx context.Context, id uuid.UUID, purpose domain.OTPPurpose) error {
	args := m.Called(ctx, id, purpose)
	return args.Error(0)
}
func (m *MockUserRepository) CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error {
	args := m.Called(ctx, id, in, occ)
	return args.Error(0)
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}
func (m *MockUserRepository) ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error {
	args := m.Called(ctx, id, occ)
	return args.Error(0)
}

func (m *MockUserRepository) UpsertAdmin(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockOccupationRepository
type MockOccupationRepository struct {
	mock.Mock
}

func (m *MockOccupationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, t domain.OccupationType) (domain.Occupation, error) {
	args := m.Called(ctx, userID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Occupation), args.Error(1)
}
func (m *MockOccupationRepository) Save(ctx context.Context, userID uuid.UUID, occ domain.Occupation) error {
	args := m.Called(ctx, userID, occ)
	return args.Error(0)
}

// MockOTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Replace(ctx context.Context, code *domain.OneTimeCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
func (m *MockOTPRepository) Consume(ctx context.Context, subject domain.OTPSubject, purpose domain.OTPPurpose, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, subject, purpose, code, now)
	return args.Bool(0), args.Error(1)
}
func (m *MockOTPRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockOTPRateLimiter
type MockOTPRateLimiter struct {
	mock.Mock
}

func (m *MockOTPRateLimiter) Allow(ctx context.Context, subject string, purpose domain.OTPPurpose) error {
	args := m.Called(ctx, subject, purpose)
	return args.Error(0)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}
func (m *MockEventBus) Wait() {}

// MockSessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *MockSessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}
func (m *MockSessionStore) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
func (m *MockSessionStore) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockLoginTicketStore
type MockLoginTicketStore struct {
	mock.Mock
}

func (m *MockLoginTicketStore) Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, userID, ttl)
	return args.Error(0)
}
func (m *MockLoginTicketStore) Consume(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockApprovalRepository
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}
func (m *MockApprovalRepository) ListUsers(ctx context.Context, f domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}
func (m *MockApprovalRepository) Approve(ctx context.Context, id uuid.UUID) (*ports.DecidedUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DecidedUser), args.Error(1)
}
func (m *MockApprovalRepository) Reject(ctx context.Context, id uuid.UUID) (*ports.DecidedUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DecidedUser), args.Error(1)
}
func (m *MockApprovalRepository) ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockApprovalRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}
func (m *MockApprovalRepository) Report(ctx context.Context, f domain.ReportFilter) ([]domain.ReportRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

// MockDirectoryRepository
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) Search(ctx context.Context, f domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Page[domain.DirectoryEntry]), args.Error(1)
}
func (m *MockDirectoryRepository) GetApproved(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectoryEntry), args.Error(1)
}
func (m *MockDirectoryRepository) PublicStats(ctx context.Context) (*domain.PublicStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicStats), args.Error(1)
}

// MockReferenceRepository
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) Villages(ctx context.Context) ([]domain.Village, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Village), args.Error(1)
}
func (m *MockReferenceRepository) Cities(ctx context.Context) ([]domain.City, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.City), args.Error(1)
}
func (m *MockReferenceRepository) Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.College), args.Error(1)
}
func (m *MockReferenceRepository) CollegeCourses(ctx context.Context, collegeID int64) ([]string, error) {
	args := m.Called(ctx, collegeID)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockReferenceRepository) Departments(ctx context.Context) ([]domain.Department, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Department), args.Error(1)
}
func (m *MockReferenceRepository) SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error) {
	args := m.Called(ctx, departmentID, departmentName)
	return args.Get(0).([]domain.SubDepartment), args.Error(1)
}
