package services

import (
	"CommunityDirectory/internal/core/domain"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() (*DirectoryService, *MockDirectoryRepository) {
	nopLogger := zerolog.Nop()
	repo := new(MockDirectoryRepository)
	return NewDirectoryService(repo, &nopLogger), repo
}

func TestDirectoryService_Search_RedactsFemaleContacts(t *testing.T) {
	svc, repo := newTestDirectory()
	ctx := context.Background()
	filter := domain.DirectoryFilter{Village: "amr", PageRequest: domain.PageRequest{Page: 1, Limit: 20}}

	repo.On("Search", ctx, filter).Return(domain.Page[domain.DirectoryEntry]{
		Items: []domain.DirectoryEntry{
			{ID: uuid.New(), Gender: "FEMALE", Phone: "111", Email: "f@example.com"},
			{ID: uuid.New(), Gender: "Male", Phone: "222", Email: "m@example.com"},
		},
		Total: 2, Page: 1, Limit: 20,
	}, nil).Once()

	page, err := svc.Search(ctx, domain.DirectoryFilter{Village: "amr"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Empty(t, page.Items[0].Phone)
	assert.Empty(t, page.Items[0].Email)
	assert.Equal(t, "222", page.Items[1].Phone)
	assert.Equal(t, "m@example.com", page.Items[1].Email)
	assert.Equal(t, 1, page.TotalPages())
}

func TestDirectoryService_Search_CapsLimit(t *testing.T) {
	svc, repo := newTestDirectory()
	ctx := context.Background()
	want := domain.DirectoryFilter{PageRequest: domain.PageRequest{Page: 3, Limit: domain.MaxPageSize}}
	repo.On("Search", ctx, want).Return(domain.Page[domain.DirectoryEntry]{Page: 3, Limit: domain.MaxPageSize}, nil).Once()

	_, err := svc.Search(ctx, domain.DirectoryFilter{PageRequest: domain.PageRequest{Page: 3, Limit: 1000}})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDirectoryService_Search_UnknownOccupation(t *testing.T) {
	svc, _ := newTestDirectory()
	_, err := svc.Search(context.Background(), domain.DirectoryFilter{Occupation: "astronaut"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDirectoryService_Member(t *testing.T) {
	svc, repo := newTestDirectory()
	ctx := context.Background()
	entry := &domain.DirectoryEntry{ID: uuid.New(), Gender: " female ", Phone: "111", Email: "f@example.com"}
	repo.On("GetApproved", ctx, entry.ID).Return(entry, nil)

	got, err := svc.Member(ctx, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.Email)
}

func TestDirectoryService_Member_NotApproved(t *testing.T) {
	svc, repo := newTestDirectory()
	ctx := context.Background()
	id := uuid.New()
	repo.On("GetApproved", ctx, id).Return(nil, nil)

	_, err := svc.Member(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
