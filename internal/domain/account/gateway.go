package account

import (
	"context"
	"net/url"
)

// LoginGateway relays the two login steps to the backend.
type LoginGateway interface {
	// SubmitLogin posts the serialized login form to action (or the login page when empty)
	// as a programmatic request and returns the raw response text.
	SubmitLogin(ctx context.Context, action string, form url.Values) ([]byte, error)
	VerifyCode(ctx context.Context, attempt VerificationAttempt) (VerificationOutcome, error)
}

// RecoveryGateway requests password reset links.
type RecoveryGateway interface {
	ForgotPassword(ctx context.Context, email string) (ForgotPasswordOutcome, error)
}

// RegistrationGateway serves the signup page's remote calls.
type RegistrationGateway interface {
	LoadProvinces(ctx context.Context, country string) ([]Province, error)
	SubmitRegistration(ctx context.Context, reg Registration) (RegistrationResult, error)
}

// RegistrationResult reports whether the backend accepted a signup. On rejection FocusField
// names the first field the re-rendered page flagged, if any.
type RegistrationResult struct {
	Accepted   bool
	FocusField string
}

// Navigator moves the session to another page of the application.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}
