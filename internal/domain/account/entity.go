package account

import (
	"errors"
	"strings"
)

var (
	// ErrPasswordRequired indicates a blank password on the login form.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCodeLength indicates a verification code that is not exactly six digits.
	ErrInvalidCodeLength = errors.New("verification code must be 6 digits")
	// ErrInvalidEmail indicates an email address that fails the format check.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrHTMLResponse means the backend rendered a page where a structured payload was expected.
	ErrHTMLResponse = errors.New("backend returned an html document")
	// ErrMalformedResponse means the structured payload could not be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrInvalidAccountType indicates an unsupported registration tab.
	ErrInvalidAccountType = errors.New("invalid account type")
)

// CodeLength is the number of digits in a second-factor code.
const CodeLength = 6

// LoginAttempt captures raw credential input for a single submit.
type LoginAttempt struct {
	Email    string
	Password string
}

// HasPassword reports whether the password survives trimming.
func (a LoginAttempt) HasPassword() bool {
	return strings.TrimSpace(a.Password) != ""
}

// OutcomeKind tags a LoginOutcome.
type OutcomeKind int

const (
	// OutcomeRejected means the backend refused the credentials.
	OutcomeRejected OutcomeKind = iota
	// OutcomeRequiresSecondFactor means a one-time code must be supplied next.
	OutcomeRequiresSecondFactor
	// OutcomeAccepted means the session is established.
	OutcomeAccepted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRequiresSecondFactor:
		return "requires_2fa"
	case OutcomeAccepted:
		return "accepted"
	default:
		return "rejected"
	}
}

// LoginOutcome is the backend's verdict on a LoginAttempt. Reason is only set for rejections.
type LoginOutcome struct {
	Kind   OutcomeKind
	Reason string
}

// VerificationAttempt carries a second-factor code.
type VerificationAttempt struct {
	Code string
}

// Valid reports whether the code is exactly CodeLength digits.
func (v VerificationAttempt) Valid() bool {
	return len(v.Code) == CodeLength && SanitizeCode(v.Code) == v.Code
}

// VerificationOutcome is the backend's verdict on a VerificationAttempt.
type VerificationOutcome struct {
	Accepted bool
	Reason   string
}

// ForgotPasswordOutcome is the reply to a reset link request.
type ForgotPasswordOutcome struct {
	Success bool
	Message string
	Error   string
}

// FieldError pairs a form field with the message rendered beside it.
type FieldError struct {
	FieldID string
	Message string
}

// AccountType selects which registration profile is being created.
type AccountType string

const (
	// AccountClient registers a client profile.
	AccountClient AccountType = "client"
	// AccountTherapist registers a therapist profile.
	AccountTherapist AccountType = "therapist"
)

// ParseAccountType validates a tab name.
func ParseAccountType(raw string) (AccountType, error) {
	switch AccountType(strings.TrimSpace(raw)) {
	case AccountClient:
		return AccountClient, nil
	case AccountTherapist:
		return AccountTherapist, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// Province is a selectable region within a country.
type Province struct {
	Code string
	Name string
}

// Country is a selectable country on the registration forms.
type Country struct {
	Code string
	Name string
}

// Countries lists the supported countries in display order.
var Countries = []Country{
	{Code: "US", Name: "United States"},
	{Code: "CA", Name: "Canada"},
}

// Specialties lists the therapist expertise choices.
var Specialties = []string{
	"Cognitive Behavioral Therapy",
	"Dialectical Behavior Therapy",
	"Family Counseling",
	"Couples Therapy",
	"Child & Adolescent Therapy",
	"Grief Counseling",
	"Trauma-Focused Therapy",
	"Anxiety & Stress Management",
	"Depression Therapy",
	"Addiction & Substance Abuse Counseling",
	"Mindfulness-Based Therapy",
	"Play Therapy",
	"Art Therapy",
	"Music Therapy",
	"Career Counseling",
	"Life Coaching & Personal Development",
	"Psychodynamic Therapy",
	"Acceptance and Commitment Therapy",
	"Behavioral Therapy",
	"Group Therapy",
}

// Registration holds the signup form for either profile type.
// Therapist-only fields are ignored for clients and vice versa.
type Registration struct {
	Type            AccountType
	Email           string
	FirstName       string
	LastName        string
	DateOfBirth     string
	Password        string
	ConfirmPassword string
	Country         string
	Province        string
	Street          string
	PhoneNumber     string

	EmergencyContactName  string
	EmergencyContactPhone string

	LicenseNumber string
	Specialties   []string
}
