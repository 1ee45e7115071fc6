package login

import (
	"errors"
	"time"
)

// Field ids of the login form.
const (
	FieldEmail    = "id_username"
	FieldPassword = "id_password"
)

// Messages shown by the login flow.
const (
	MsgPasswordRequired   = "Password is required"
	MsgServerError        = "Server error occurred. Please try again."
	MsgUnexpectedResponse = "Unexpected server response. Please try again."
	MsgInvalidCredentials = "Invalid email or password"
	MsgNetworkError       = "Network error. Please check your connection and try again."

	MsgCodeLength      = "Please enter a 6-digit code"
	MsgVerifySuccess   = "Verification successful! Redirecting..."
	MsgInvalidCode     = "Invalid code. Please try again."
	MsgVerifyFailure   = "An error occurred. Please try again."
	LabelVerify        = "Verify Code"
	LabelVerifying     = "Verifying..."
	KeyEnter           = "Enter"
	DefaultRedirectGap = time.Second
)

var (
	// ErrSubmitInProgress is returned when a login submit is already awaiting the backend.
	ErrSubmitInProgress = errors.New("login submission already in progress")
	// ErrVerifyInProgress is returned when the verify control is disabled by a pending request.
	ErrVerifyInProgress = errors.New("verification already in progress")
	// ErrNotVisible is returned when the verification step is used while hidden.
	ErrNotVisible = errors.New("verification step is not open")
	// ErrStaleResponse marks a verification reply that arrived after its request was abandoned.
	ErrStaleResponse = errors.New("stale verification response ignored")
	// ErrRedirectCancelled is reported by WaitRedirect when the step was dismissed first.
	ErrRedirectCancelled = errors.New("redirect cancelled")
)

// Timer is a pending delayed call.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
