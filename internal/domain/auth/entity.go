package auth

import (
	"errors"
	"time"

	"wellness/portal/internal/domain/account"
)

var (
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrSessionInvalid means a session cookie cannot be validated.
	ErrSessionInvalid = errors.New("session invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCode indicates a rejected one-time code.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrNoPendingLogin means a code arrived without a password step before it.
	ErrNoPendingLogin = errors.New("no login awaiting verification")
)

// Stage is how far a session has progressed through login.
type Stage string

const (
	// StagePending marks a session whose password was accepted but still needs a code.
	StagePending Stage = "pending_2fa"
	// StageAuthenticated marks a fully logged in session.
	StageAuthenticated Stage = "authenticated"
)

// User models an account held by the stand-in backend.
type User struct {
	ID           string
	Email        string
	FirstName    string
	Type         account.AccountType
	PasswordHash string
	// TOTPSecret is empty when two-factor login is off for the user.
	TOTPSecret string
	CreatedAt  time.Time
}

// TwoFactor reports whether logins need a one-time code.
func (u *User) TwoFactor() bool {
	return u.TOTPSecret != ""
}

// Session is the decoded session cookie.
type Session struct {
	UserID string
	Stage  Stage
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Email    string
	Password string
}
