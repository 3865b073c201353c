package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepository_ConsumeOnce(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, users)
	subject := domain.OTPSubject{UserID: &user.ID, Contact: user.Email}
	now := time.Now()

	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "123456", now)))

	ok, err := repo.Consume(ctx, subject, domain.PurposeEmail, "654321", now)
	require.NoError(t, err)
	assert.False(t, ok, "wrong code")

	ok, err = repo.Consume(ctx, subject, domain.PurposePhone, "123456", now)
	require.NoError(t, err)
	assert.False(t, ok, "wrong purpose")

	ok, err = repo.Consume(ctx, subject, domain.PurposeEmail, "123456", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Consume(ctx, subject, domain.PurposeEmail, "123456", now)
	require.NoError(t, err)
	assert.False(t, ok, "already used")
}

func TestOTPRepository_ExpiredCode(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, users)
	subject := domain.OTPSubject{UserID: &user.ID, Contact: user.Phone}
	issued := time.Now()

	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposePhone, "111111", issued)))

	ok, err := repo.Consume(ctx, subject, domain.PurposePhone, "111111", issued.Add(domain.OTPTTL+time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, subject, domain.PurposePhone, "111111", issued.Add(domain.OTPTTL))
	require.NoError(t, err)
	assert.True(t, ok, "expiry boundary is inclusive")
}

func TestOTPRepository_ReplaceInvalidatesPrevious(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, users)
	subject := domain.OTPSubject{UserID: &user.ID, Contact: user.Email}
	now := time.Now()

	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "222222", now)))
	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "333333", now.Add(time.Second))))

	ok, err := repo.Consume(ctx, subject, domain.PurposeEmail, "222222", now.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, subject, domain.PurposeEmail, "333333", now.Add(2*time.Second))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, countRows(t, "otp_verifications", user.ID))
}

func TestOTPRepository_ConcurrentConsume(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, users)
	subject := domain.OTPSubject{UserID: &user.ID, Contact: user.Email}
	now := time.Now()
	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "444444", now)))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Consume(ctx, subject, domain.PurposeEmail, "444444", now)
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestOTPRepository_ContactSubject(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	contact := "guest" + time.Now().Format("150405.000000") + "@example.com"
	subject := domain.OTPSubject{Contact: contact}
	now := time.Now()
	t.Cleanup(func() {
		testDB.pool.Exec(context.Background(), `DELETE FROM otp_verifications WHERE contact = $1`, contact)
	})

	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "555555", now)))

	ok, err := repo.Consume(ctx, domain.OTPSubject{Contact: "other@example.com"}, domain.PurposeEmail, "555555", now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Consume(ctx, subject, domain.PurposeEmail, "555555", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPRepository_Purge(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	users := NewUserRepository(testDB, testSecSvc, &nopLogger)
	repo := NewOTPRepository(testDB, &nopLogger)
	ctx := context.Background()

	user := createTestUser(t, users)
	subject := domain.OTPSubject{UserID: &user.ID, Contact: user.Email}
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, repo.Replace(ctx, domain.NewOneTimeCode(subject, domain.PurposeEmail, "666666", old)))
	_, err := repo.Purge(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, "otp_verifications", user.ID))
}
