package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	// ReferenceMaxAge bounds how long a signup/login reference stays usable.
	ReferenceMaxAge = 30 * time.Minute
	// LoginTicketTTL is how long a verified code keeps login open.
	LoginTicketTTL = 10 * time.Minute
	// MinPasswordLength applies to every password the service sets.
	MinPasswordLength = 6
)

// Challenge is returned whenever the caller must now enter a code.
type Challenge struct {
	Ref   string
	Email string
}

// LoginResult carries a fresh session.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService struct {
	users      ports.UserRepository
	otp        *OTPService
	sessions   ports.SessionStore
	tickets    ports.LoginTicketStore
	secSvc     ports.SecurityPort
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	otp *OTPService,
	sessions ports.SessionStore,
	tickets ports.LoginTicketStore,
	secSvc ports.SecurityPort,
	baseLogger *zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		otp:        otp,
		sessions:   sessions,
		tickets:    tickets,
		secSvc:     secSvc,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		log:        baseLogger.With().Str("component", "auth_service").Logger(),
	}
}

// Signup creates an account, or rewrites the credentials of an account
// whose registration was never completed, and sends an email code.
func (s *AuthService) Signup(ctx context.Context, phone, email, password string) (*Challenge, error) {
	phone = strings.TrimSpace(phone)
	email = normalizeEmail(email)
	if phone == "" || email == "" || password == "" {
		return nil, domain.NewValidationError("Phone, email, and password are required.")
	}
	if !domain.ValidPhone(phone) {
		return nil, domain.NewValidationError("Invalid phone number.")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}

	existing, err := s.findExisting(ctx, phone, email)
	if err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	if existing != nil {
		if err := s.users.UpdateCredentials(ctx, existing.ID, phone, email, hash); err != nil {
			return nil, err
		}
		id = existing.ID
		s.log.Info().Str("user_id", id.String()).Msg("Restarted incomplete registration")
	} else {
		user := &domain.User{ID: uuid.New(), Phone: phone, Email: email, PasswordHash: hash}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		id = user.ID
		s.log.Info().Str("user_id", id.String()).Msg("New user signed up")
	}

	if _, err := s.otp.Issue(ctx, domain.OTPSubject{UserID: &id, Contact: email}, domain.PurposeEmail, ReasonSignup); err != nil {
		return nil, err
	}
	return s.challenge(id, email)
}

// findExisting returns the incomplete registration that matches phone or
// email, nil when neither is taken, or ErrAccountExists.
func (s *AuthService) findExisting(ctx context.Context, phone, email string) (*domain.User, error) {
	byEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	byPhone, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if byEmail != nil && byPhone != nil && byEmail.ID != byPhone.ID {
		return nil, domain.ErrAccountExists
	}
	existing := byEmail
	if existing == nil {
		existing = byPhone
	}
	if existing != nil && (existing.RegistrationCompleted || existing.IsAdmin) {
		return nil, domain.ErrAccountExists
	}
	return existing, nil
}

// VerifyContact consumes a code for the user named by ref, or by contact
// when ref is empty, and opens a short login window. It returns a
// reference usable with CompleteLogin.
func (s *AuthService) VerifyContact(ctx context.Context, ref, contact, code string, purpose domain.OTPPurpose) (string, error) {
	if purpose == "" {
		purpose = domain.PurposeEmail
	}
	if !purpose.Valid() {
		return "", domain.NewValidationError("type must be email or phone")
	}

	user, err := s.resolve(ctx, ref, contact)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrInvalidOrExpiredCode
	}

	if err := s.otp.Verify(ctx, domain.OTPSubject{UserID: &user.ID, Contact: user.Email}, purpose, code); err != nil {
		return "", err
	}
	if err := s.users.MarkContactVerified(ctx, user.ID, purpose); err != nil {
		return "", fmt.Errorf("mark verified: %w", err)
	}
	if err := s.tickets.Grant(ctx, user.ID, LoginTicketTTL); err != nil {
		return "", fmt.Errorf("grant login ticket: %w", err)
	}

	if ref == "" {
		c, err := s.challenge(user.ID, user.Email)
		if err != nil {
			return "", err
		}
		ref = c.Ref
	}
	return ref, nil
}

// Login checks the password and always sends a new email code.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Challenge, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.NewValidationError("Email/Phone and password are required.")
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.otp.Issue(ctx, domain.OTPSubject{UserID: &user.ID, Contact: user.Email}, domain.PurposeEmail, ReasonLogin); err != nil {
		return nil, err
	}
	return s.challenge(user.ID, user.Email)
}

// CompleteLogin exchanges a verified reference for a session.
func (s *AuthService) CompleteLogin(ctx context.Context, ref string) (*LoginResult, error) {
	id, err := s.secSvc.OpenReference(ref, ReferenceMaxAge, s.now())
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	ok, err := s.tickets.Consume(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consume login ticket: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// ResendOTP issues a new code to the chosen channel of the referenced user.
func (s *AuthService) ResendOTP(ctx context.Context, ref string, purpose domain.OTPPurpose) error {
	if purpose == "" {
		purpose = domain.PurposeEmail
	}
	id, err := s.secSvc.OpenReference(ref, ReferenceMaxAge, s.now())
	if err != nil {
		return domain.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}

	contact := user.Email
	if purpose == domain.PurposePhone {
		contact = user.Phone
	}
	_, err = s.otp.Issue(ctx, domain.OTPSubject{UserID: &user.ID, Contact: contact}, purpose, ReasonResend)
	return err
}

// ForgotPassword sends a reset code when the account exists. Callers see
// the same outcome either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("Email is required.")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	_, err = s.otp.Issue(ctx, domain.OTPSubject{UserID: &user.ID, Contact: user.Email}, domain.PurposeEmail, ReasonReset)
	if errors.Is(err, domain.ErrRateLimited) {
		s.log.Warn().Str("user_id", user.ID.String()).Msg("Password reset code throttled")
		return nil
	}
	return err
}

// ResetPassword verifies the emailed code and sets a new password. All
// live sessions of the user are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" || newPassword == "" {
		return domain.NewValidationError("Email, OTP, and new password are required.")
	}
	if len(newPassword) < MinPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidOrExpiredCode
	}
	if err := s.otp.Verify(ctx, domain.OTPSubject{UserID: &user.ID, Contact: user.Email}, domain.PurposeEmail, code); err != nil {
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to revoke sessions after reset")
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return domain.NewValidationError("Current and new password are required.")
	}
	if len(next) < MinPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Session returns the user behind a session token.
func (s *AuthService) Session(ctx context.Context, token string) (*domain.User, error) {
	id, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Deleted by a rejection while logged in.
		_ = s.sessions.Revoke(ctx, token)
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// BootstrapAdmin creates or promotes the admin account for email.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, phone, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	phone = strings.TrimSpace(phone)
	if email == "" || phone == "" || len(password) < MinPasswordLength {
		return nil, domain.NewValidationError("admin bootstrap needs email, phone and a password of at least 6 characters")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.User{
		ID:           uuid.New(),
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		IsAdmin:      true,
	}
	if err := s.users.UpsertAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	s.log.Info().Str("user_id", admin.ID.String()).Msg("Admin account ensured")
	return admin, nil
}

func (s *AuthService) resolve(ctx context.Context, ref, contact string) (*domain.User, error) {
	if ref != "" {
		id, err := s.secSvc.OpenReference(ref, ReferenceMaxAge, s.now())
		if err != nil {
			return nil, nil
		}
		return s.users.GetByID(ctx, id)
	}
	if strings.TrimSpace(contact) == "" {
		return nil, domain.NewValidationError("User reference and OTP are required.")
	}
	return s.lookup(ctx, contact)
}

// lookup treats identifiers containing '@' as email, others as phone.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, normalizeEmail(identifier))
	}
	return s.users.GetByPhone(ctx, identifier)
}

func (s *AuthService) challenge(id uuid.UUID, email string) (*Challenge, error) {
	ref, err := s.secSvc.SealReference(id, s.now())
	if err != nil {
		return nil, fmt.Errorf("seal reference: %w", err)
	}
	return &Challenge{Ref: ref, Email: email}, nil
}

func (s *AuthService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
