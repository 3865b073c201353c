package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Profile is the owner's own view; nothing is redacted.
type Profile struct {
	User       *domain.User
	Occupation domain.Occupation
}

type RegistrationService struct {
	users       ports.UserRepository
	occupations ports.OccupationRepository
	bus         ports.EventBus
	requirement domain.VerificationRequirement
	log         zerolog.Logger
}

func NewRegistrationService(
	users ports.UserRepository,
	occupations ports.OccupationRepository,
	bus ports.EventBus,
	requirement domain.VerificationRequirement,
	baseLogger *zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		users:       users,
		occupations: occupations,
		bus:         bus,
		requirement: requirement,
		log:         baseLogger.With().Str("component", "registration_service").Logger(),
	}
}

// CompleteProfile moves a signed-up user to pending approval.
func (s *RegistrationService) CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error {
	in = trimProfile(in)
	if in.FirstName == "" || in.LastName == "" || in.Gender == "" || in.VillageID <= 0 || in.CurrentAddress == "" || occ == nil {
		return domain.NewValidationError("All required fields must be filled.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.IsAdmin {
		return domain.ErrForbidden
	}
	if !s.requirement.Satisfied(user) {
		return domain.ErrVerificationRequired
	}

	if err := s.users.CompleteProfile(ctx, id, in, occ); err != nil {
		return fmt.Errorf("complete profile: %w", err)
	}

	log := s.log.With().Str("user_id", id.String()).Str("occupation", string(occ.Type())).Logger()
	log.Info().Msg("Registration completed")

	if user.RegistrationCompleted {
		return nil
	}
	named := domain.User{FirstName: in.FirstName, MiddleName: in.MiddleName, LastName: in.LastName}
	evt := ports.UserRegisteredEvent{
		UserID:     id,
		Name:       named.FullName(),
		Occupation: occ.Type(),
	}
	if err := s.bus.Publish(ctx, ports.TopicUserRegistered, evt); err != nil {
		log.Error().Err(err).Msg("Failed to publish 'user:registered' event")
	}
	return nil
}

// ChangeOccupation drops the current variant and stores occ in its place.
func (s *RegistrationService) ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error {
	if occ == nil {
		return domain.NewValidationError("Occupation type and details are required.")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if !user.RegistrationCompleted {
		return domain.NewValidationError("Complete your registration first.")
	}
	if err := s.users.ChangeOccupation(ctx, id, occ); err != nil {
		return fmt.Errorf("change occupation: %w", err)
	}
	s.log.Info().Str("user_id", id.String()).
		Str("from", string(user.OccupationType)).
		Str("to", string(occ.Type())).
		Msg("Occupation changed")
	return nil
}

// UpdateProfile applies a partial personal update and, when occPatch is
// non-empty, overlays it on the user's current occupation detail.
func (s *RegistrationService) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, occPatch []byte) error {
	for _, f := range []*string{patch.FirstName, patch.LastName, patch.Gender, patch.CurrentAddress} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return domain.NewValidationError("Required fields cannot be blank.")
		}
	}
	if patch.VillageID != nil && *patch.VillageID <= 0 {
		return domain.NewValidationError("Invalid village.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}

	if !patch.Empty() {
		if err := s.users.UpdateProfile(ctx, id, patch); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
	}

	if domain.EmptyPayload(occPatch) {
		return nil
	}
	if !user.OccupationType.Valid() {
		return domain.NewValidationError("Complete your registration first.")
	}
	current, err := s.occupations.GetByUserID(ctx, id, user.OccupationType)
	if err != nil {
		return err
	}
	if current == nil {
		if current, err = domain.NewOccupation(user.OccupationType); err != nil {
			return err
		}
	}
	if err := domain.PatchOccupation(current, occPatch); err != nil {
		return err
	}
	if err := s.occupations.Save(ctx, id, current); err != nil {
		return fmt.Errorf("save occupation: %w", err)
	}
	return nil
}

// Profile returns the user's own record with its occupation detail.
func (s *RegistrationService) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	p := &Profile{User: user}
	if user.OccupationType.Valid() {
		if p.Occupation, err = s.occupations.GetByUserID(ctx, id, user.OccupationType); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func trimProfile(in domain.ProfileInput) domain.ProfileInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.CurrentAddress = strings.TrimSpace(in.CurrentAddress)
	return in
}
