package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DirectoryService is the public read side over approved members.
type DirectoryService struct {
	repo ports.DirectoryRepository
	log  zerolog.Logger
}

func NewDirectoryService(repo ports.DirectoryRepository, baseLogger *zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		repo: repo,
		log:  baseLogger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *DirectoryService) Search(ctx context.Context, f domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error) {
	if f.Occupation != "" && !f.Occupation.Valid() {
		return domain.Page[domain.DirectoryEntry]{}, domain.NewValidationError("unknown occupation type")
	}
	f.PageRequest = f.PageRequest.Normalize()

	page, err := s.repo.Search(ctx, f)
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		redactContacts(&page.Items[i])
	}
	return page, nil
}

// Member returns one approved member, or domain.ErrNotFound.
func (s *DirectoryService) Member(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error) {
	entry, err := s.repo.GetApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	redactContacts(entry)
	return entry, nil
}

func (s *DirectoryService) PublicStats(ctx context.Context) (*domain.PublicStats, error) {
	return s.repo.PublicStats(ctx)
}

// redactContacts is the single place public listings are scrubbed.
func redactContacts(e *domain.DirectoryEntry) {
	e.RedactContacts()
}
