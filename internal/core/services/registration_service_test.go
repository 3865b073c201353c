package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegistration(req domain.VerificationRequirement) (*RegistrationService, *MockUserRepository, *MockOccupationRepository, *MockEventBus) {
	nopLogger := zerolog.Nop()
	users, occs, bus := new(MockUserRepository), new(MockOccupationRepository), new(MockEventBus)
	return NewRegistrationService(users, occs, bus, req, &nopLogger), users, occs, bus
}

func validProfile() domain.ProfileInput {
	return domain.ProfileInput{
		FirstName:      " Asha ",
		LastName:       "Patel",
		Gender:         "Female",
		VillageID:      7,
		CurrentAddress: "12 Station Road",
	}
}

func TestRegistrationService_CompleteProfile(t *testing.T) {
	svc, users, _, bus := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New()}
	occ := &domain.StudentDetail{CollegeName: "MS University"}

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	users.On("CompleteProfile", ctx, user.ID, mock.MatchedBy(func(in domain.ProfileInput) bool {
		return in.FirstName == "Asha"
	}), occ).Return(nil).Once()
	bus.On("Publish", ctx, ports.TopicUserRegistered, ports.UserRegisteredEvent{
		UserID: user.ID, Name: "Asha Patel", Occupation: domain.OccupationStudent,
	}).Return(nil).Once()

	require.NoError(t, svc.CompleteProfile(ctx, user.ID, validProfile(), occ))
	users.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestRegistrationService_CompleteProfile_AlertNameIncludesMiddleName(t *testing.T) {
	svc, users, _, bus := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New()}
	occ := &domain.BusinessDetail{BusinessName: "Patel Traders"}
	in := validProfile()
	in.MiddleName = " Kiran "

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	users.On("CompleteProfile", ctx, user.ID, mock.Anything, occ).Return(nil)
	bus.On("Publish", ctx, ports.TopicUserRegistered, ports.UserRegisteredEvent{
		UserID: user.ID, Name: "Asha Kiran Patel", Occupation: domain.OccupationBusiness,
	}).Return(nil).Once()

	require.NoError(t, svc.CompleteProfile(ctx, user.ID, in, occ))
	bus.AssertExpectations(t)
}

func TestRegistrationService_CompleteProfile_ResubmitDoesNotRealert(t *testing.T) {
	svc, users, _, bus := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), RegistrationCompleted: true}
	occ := &domain.JobDetail{}

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	users.On("CompleteProfile", ctx, user.ID, mock.Anything, occ).Return(nil)

	require.NoError(t, svc.CompleteProfile(ctx, user.ID, validProfile(), occ))
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_CompleteProfile_MissingFields(t *testing.T) {
	svc, users, _, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	id := uuid.New()

	for name, mutate := range map[string]func(*domain.ProfileInput){
		"first name": func(in *domain.ProfileInput) { in.FirstName = "  " },
		"last name":  func(in *domain.ProfileInput) { in.LastName = "" },
		"gender":     func(in *domain.ProfileInput) { in.Gender = "" },
		"village":    func(in *domain.ProfileInput) { in.VillageID = 0 },
		"address":    func(in *domain.ProfileInput) { in.CurrentAddress = "" },
	} {
		t.Run(name, func(t *testing.T) {
			in := validProfile()
			mutate(&in)
			err := svc.CompleteProfile(ctx, id, in, &domain.JobDetail{})
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	err := svc.CompleteProfile(ctx, id, validProfile(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRegistrationService_CompleteProfile_VerificationRequirement(t *testing.T) {
	tests := []struct {
		req     domain.VerificationRequirement
		user    domain.User
		wantErr error
	}{
		{req: domain.RequireNone, user: domain.User{}},
		{req: domain.RequireEmail, user: domain.User{}, wantErr: domain.ErrVerificationRequired},
		{req: domain.RequireEmail, user: domain.User{EmailVerified: true}},
		{req: domain.RequireBoth, user: domain.User{EmailVerified: true}, wantErr: domain.ErrVerificationRequired},
		{req: domain.RequireBoth, user: domain.User{EmailVerified: true, PhoneVerified: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.req), func(t *testing.T) {
			svc, users, _, bus := newTestRegistration(tt.req)
			ctx := context.Background()
			user := tt.user
			user.ID = uuid.New()

			users.On("GetByID", ctx, user.ID).Return(&user, nil)
			users.On("CompleteProfile", ctx, user.ID, mock.Anything, mock.Anything).Return(nil)
			bus.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)

			err := svc.CompleteProfile(ctx, user.ID, validProfile(), &domain.BusinessDetail{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "CompleteProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistrationService_CompleteProfile_AdminForbidden(t *testing.T) {
	svc, users, _, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), IsAdmin: true}
	users.On("GetByID", ctx, admin.ID).Return(admin, nil)

	err := svc.CompleteProfile(ctx, admin.ID, validProfile(), &domain.JobDetail{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegistrationService_ChangeOccupation(t *testing.T) {
	svc, users, _, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), RegistrationCompleted: true, OccupationType: domain.OccupationStudent}
	occ := &domain.JobDetail{CompanyName: "Acme"}

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	users.On("ChangeOccupation", ctx, user.ID, occ).Return(nil).Once()

	require.NoError(t, svc.ChangeOccupation(ctx, user.ID, occ))
	users.AssertExpectations(t)
}

func TestRegistrationService_ChangeOccupation_Incomplete(t *testing.T) {
	svc, users, _, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New()}
	users.On("GetByID", ctx, user.ID).Return(user, nil)

	err := svc.ChangeOccupation(ctx, user.ID, &domain.JobDetail{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistrationService_UpdateProfile_PatchesOccupation(t *testing.T) {
	svc, users, occs, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), RegistrationCompleted: true, OccupationType: domain.OccupationJob}
	current := &domain.JobDetail{CompanyName: "Acme", Designation: "Engineer"}
	city := "Surat"

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	users.On("UpdateProfile", ctx, user.ID, domain.ProfilePatch{CurrentAddress: &city}).Return(nil).Once()
	occs.On("GetByUserID", ctx, user.ID, domain.OccupationJob).Return(current, nil)
	occs.On("Save", ctx, user.ID, mock.MatchedBy(func(o domain.Occupation) bool {
		j, ok := o.(*domain.JobDetail)
		return ok && j.CompanyName == "Acme" && j.Designation == "Manager"
	})).Return(nil).Once()

	err := svc.UpdateProfile(ctx, user.ID, domain.ProfilePatch{CurrentAddress: &city}, []byte(`{"designation":"Manager"}`))
	require.NoError(t, err)
	users.AssertExpectations(t)
	occs.AssertExpectations(t)
}

func TestRegistrationService_UpdateProfile_BlankRequiredField(t *testing.T) {
	svc, _, _, _ := newTestRegistration(domain.RequireNone)
	blank := " "
	err := svc.UpdateProfile(context.Background(), uuid.New(), domain.ProfilePatch{FirstName: &blank}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistrationService_Profile(t *testing.T) {
	svc, users, occs, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Gender: "female", Phone: "9876543210", OccupationType: domain.OccupationBusiness}
	occ := &domain.BusinessDetail{BusinessName: "Silk House"}

	users.On("GetByID", ctx, user.ID).Return(user, nil)
	occs.On("GetByUserID", ctx, user.ID, domain.OccupationBusiness).Return(occ, nil)

	p, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", p.User.Phone, "owner sees own contacts")
	assert.Equal(t, occ, p.Occupation)
}

func TestRegistrationService_Profile_NotFound(t *testing.T) {
	svc, users, _, _ := newTestRegistration(domain.RequireNone)
	ctx := context.Background()
	id := uuid.New()
	users.On("GetByID", ctx, id).Return(nil, nil)

	_, err := svc.Profile(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
