package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness/portal/internal/domain/account"
	domain "wellness/portal/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// Issuer labels enrolled authenticator entries.
const Issuer = "Wellness Portal"

// ValidationError lists the fields a signup was refused for, in form order.
// FieldID holds the unprefixed form field name.
type ValidationError struct {
	Fields []account.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.FieldID)
	}
	return "invalid registration: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(ok bool, field, message string) {
	if !ok {
		e.Fields = append(e.Fields, account.FieldError{FieldID: field, Message: message})
	}
}

// Service coordinates the two-step login and signup workflows.
type Service struct {
	users   domain.UserRepository
	tokens  TokenManager
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, tokens TokenManager) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// Register validates a signup and creates the user. Field problems come back as *ValidationError.
func (s *Service) Register(ctx context.Context, reg account.Registration) (*domain.User, error) {
	reg.Email = strings.TrimSpace(strings.ToLower(reg.Email))

	verr := &ValidationError{}
	verr.add(account.ValidEmail(reg.Email), "email", "Enter a valid email address.")
	verr.add(strings.TrimSpace(reg.FirstName) != "", "first_name", "This field is required.")
	verr.add(account.ValidDateOfBirth(reg.DateOfBirth), "date_of_birth", "This field is required.")
	verr.add(account.CheckPassword(reg.Password).Complete(), "password1", "This password is too weak.")
	verr.add(reg.Password == reg.ConfirmPassword, "password2", "The two password fields didn't match.")
	if reg.Type == account.AccountTherapist {
		verr.add(strings.TrimSpace(reg.LicenseNumber) != "", "license_number", "This field is required.")
		verr.add(len(reg.Specialties) > 0, "specialty", "This field is required.")
		verr.add(account.RegionsFor(reg.Country) != nil, "country", "This field is required.")
		verr.add(validProvince(reg.Country, reg.Province), "province", "This field is required.")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        reg.Email,
		FirstName:    strings.TrimSpace(reg.FirstName),
		Type:         reg.Type,
		PasswordHash: string(hashed),
		CreatedAt:    s.nowFunc().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, &ValidationError{Fields: []account.FieldError{{FieldID: "email", Message: "User with this Email already exists."}}}
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func validProvince(country, province string) bool {
	for _, p := range account.RegionsFor(country) {
		if p.Code == province {
			return true
		}
	}
	return false
}

// EnableTwoFactor is used when seeding: it creates a user that logs in with a one-time
// code and returns the authenticator secret.
func (s *Service) EnableTwoFactor(ctx context.Context, reg account.Registration) (*domain.User, string, error) {
	user, err := s.Register(ctx, reg)
	if err != nil {
		return nil, "", err
	}
	stored, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: Issuer, AccountName: stored.Email})
	if err != nil {
		return nil, "", fmt.Errorf("generate totp secret: %w", err)
	}
	stored.TOTPSecret = key.Secret()
	if err := s.users.Update(ctx, stored); err != nil {
		return nil, "", err
	}
	return sanitizeUser(stored), key.Secret(), nil
}

// Login checks the password. Users with two-factor login get a pending session that only
// Verify can upgrade.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, domain.Stage, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))
	if email == "" || creds.Password == "" {
		return "", "", domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	stage := domain.StageAuthenticated
	if user.TwoFactor() {
		stage = domain.StagePending
	}
	token, err := s.tokens.Generate(user.ID, stage)
	if err != nil {
		return "", "", err
	}
	return token, stage, nil
}

// Verify checks a one-time code against a pending session and returns the upgraded session.
func (s *Service) Verify(ctx context.Context, session, code string) (string, error) {
	claims, err := s.tokens.Validate(session)
	if err != nil || claims.Stage != domain.StagePending {
		return "", domain.ErrNoPendingLogin
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrNoPendingLogin
		}
		return "", err
	}

	ok, err := totp.ValidateCustom(code, user.TOTPSecret, s.nowFunc().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return "", domain.ErrInvalidCode
	}
	return s.tokens.Generate(user.ID, domain.StageAuthenticated)
}

// Authenticate resolves a fully logged in session to its user.
func (s *Service) Authenticate(ctx context.Context, session string) (*domain.User, error) {
	claims, err := s.tokens.Validate(session)
	if err != nil || claims.Stage != domain.StageAuthenticated {
		return nil, domain.ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

// SessionFor issues an authenticated session, as signup does right after creating the user.
func (s *Service) SessionFor(user *domain.User) (string, error) {
	return s.tokens.Generate(user.ID, domain.StageAuthenticated)
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	copy.TOTPSecret = ""
	return &copy
}
