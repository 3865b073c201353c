package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_GetByEmail_Roundtrip(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, repo)

	found, err := repo.GetByEmail(ctx, strings.ToUpper(user.Email))
	require.NoError(t, err)
	require.NotNil(t, found, "GetByEmail should normalize case")
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Phone, found.Phone)
	assert.Equal(t, domain.StateUnverified, found.State())

	byPhone, err := repo.GetByPhone(ctx, user.Phone)
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, user.ID, byPhone.ID)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)

	found, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)

	user := createTestUser(t, repo)
	dup := &domain.User{ID: uuid.New(), Phone: "1" + user.Phone, Email: user.Email, PasswordHash: "x"}

	err := repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestUserRepository_MarkContactVerified(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, repo)
	require.NoError(t, repo.MarkContactVerified(ctx, user.ID, domain.PurposeEmail))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.False(t, found.PhoneVerified)
	assert.Equal(t, domain.StateContactVerified, found.State())

	assert.ErrorIs(t, repo.MarkContactVerified(ctx, uuid.New(), domain.PurposePhone), domain.ErrNotFound)
}

func TestUserRepository_CompleteProfile_EncryptsAddress(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()
	villageID := createTestVillage(t, "Varsada")

	user := completeTestUser(t, repo, villageID, "Male", &domain.StudentDetail{CollegeName: "LD College"})

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.RegistrationCompleted)
	assert.Equal(t, domain.StatePendingApproval, found.State())
	assert.Equal(t, "12 Station Road", found.CurrentAddress)
	assert.Equal(t, domain.OccupationStudent, found.OccupationType)
	assert.True(t, strings.HasPrefix(found.VillageName, "Varsada"))

	var raw string
	require.NoError(t, testDB.pool.QueryRow(ctx, `SELECT current_address FROM users WHERE id = $1`, user.ID).Scan(&raw))
	assert.NotContains(t, raw, "Station", "address must be stored encrypted")
	assert.Equal(t, 1, countRows(t, "student_details", user.ID))
}

func TestUserRepository_ChangeOccupation_ReplacesVariant(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	occRepo := NewOccupationRepository(testDB, &nopLogger)
	ctx := context.Background()
	villageID := createTestVillage(t, "Amreli")

	user := completeTestUser(t, repo, villageID, "Male", &domain.StudentDetail{Department: "Engineering"})

	biz := &domain.BusinessDetail{BusinessName: "Patel Traders", BusinessType: "Retail"}
	require.NoError(t, repo.ChangeOccupation(ctx, user.ID, biz))

	assert.Equal(t, 0, countRows(t, "student_details", user.ID))
	assert.Equal(t, 0, countRows(t, "job_details", user.ID))
	assert.Equal(t, 1, countRows(t, "business_details", user.ID))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OccupationBusiness, found.OccupationType)

	occ, err := occRepo.GetByUserID(ctx, user.ID, domain.OccupationBusiness)
	require.NoError(t, err)
	require.IsType(t, &domain.BusinessDetail{}, occ)
	assert.Equal(t, "Patel Traders", occ.(*domain.BusinessDetail).BusinessName)

	gone, err := occRepo.GetByUserID(ctx, user.ID, domain.OccupationStudent)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUserRepository_UpdateProfile_Partial(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()
	villageID := createTestVillage(t, "Amreli")

	user := completeTestUser(t, repo, villageID, "Male", &domain.JobDetail{CompanyName: "Acme"})

	first := "Ravi"
	addr := "45 Market Yard"
	require.NoError(t, repo.UpdateProfile(ctx, user.ID, domain.ProfilePatch{FirstName: &first, CurrentAddress: &addr}))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", found.FirstName)
	assert.Equal(t, "User", found.LastName)
	assert.Equal(t, "45 Market Yard", found.CurrentAddress)
}

func TestUserRepository_UpdateCredentials_OnlyIncomplete(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()
	villageID := createTestVillage(t, "Amreli")

	pending := createTestUser(t, repo)
	require.NoError(t, repo.UpdateCredentials(ctx, pending.ID, pending.Phone, pending.Email, "new-hash"))

	done := completeTestUser(t, repo, villageID, "Male", &domain.JobDetail{})
	err := repo.UpdateCredentials(ctx, done.ID, done.Phone, done.Email, "new-hash")
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}
