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

func TestSearchWhere_ComposesPredicates(t *testing.T) {
	w := searchWhere(domain.DirectoryFilter{
		Village:    "amr",
		Occupation: domain.OccupationJob,
		Company:    "Acme",
	})
	sql := w.sql()

	assert.True(t, strings.HasPrefix(sql, " WHERE u.is_approved AND "))
	assert.Contains(t, sql, "v.name ILIKE $1")
	assert.Contains(t, sql, "u.occupation_type = $2")
	assert.Contains(t, sql, "jd.company_name ILIKE $3")
	assert.Contains(t, sql, "u.occupation_type = 'job'")
	assert.Equal(t, []any{"%amr%", "job", "%Acme%"}, w.args)
}

func TestSearchWhere_EmptyFilterOnlyApproved(t *testing.T) {
	w := searchWhere(domain.DirectoryFilter{})
	assert.Equal(t, " WHERE u.is_approved", w.sql())
	assert.Empty(t, w.args)
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestDirectoryRepository_Search(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	approvals := NewApprovalRepository(testDB, testSecSvc, &nopLogger)
	repo := NewDirectoryRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	tag := uuid.NewString()[:8]
	villageID := createTestVillage(t, "Xvillage"+tag)
	otherVillage := createTestVillage(t, "Elsewhere"+tag)

	match := completeTestUser(t, users, villageID, "Male", &domain.JobDetail{CompanyName: "ACME Corp " + tag})
	wrongCompany := completeTestUser(t, users, villageID, "Male", &domain.JobDetail{CompanyName: "Globex"})
	wrongVillage := completeTestUser(t, users, otherVillage, "Male", &domain.JobDetail{CompanyName: "Acme Corp " + tag})
	student := completeTestUser(t, users, villageID, "Male", &domain.StudentDetail{CollegeName: "Acme Institute " + tag})
	completeTestUser(t, users, villageID, "Male", &domain.JobDetail{CompanyName: "Acme Corp " + tag})

	for _, u := range []*domain.User{match, wrongCompany, wrongVillage, student} {
		_, err := approvals.Approve(ctx, u.ID)
		require.NoError(t, err)
	}

	page, err := repo.Search(ctx, domain.DirectoryFilter{
		Village:    "xvillage" + tag,
		Occupation: domain.OccupationJob,
		Company:    "acme corp " + strings.ToUpper(tag),
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, match.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.TotalPages())
	require.IsType(t, &domain.JobDetail{}, page.Items[0].Occupation)
}

func TestDirectoryRepository_GetApproved(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	approvals := NewApprovalRepository(testDB, testSecSvc, &nopLogger)
	repo := NewDirectoryRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()
	villageID := createTestVillage(t, "Amreli")

	user := completeTestUser(t, users, villageID, "Female", &domain.BusinessDetail{BusinessName: "Silk House"})

	entry, err := repo.GetApproved(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, entry, "pending users are not visible")

	_, err = approvals.Approve(ctx, user.ID)
	require.NoError(t, err)

	entry, err = repo.GetApproved(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, user.Email, entry.Email, "repository does not redact")
}
