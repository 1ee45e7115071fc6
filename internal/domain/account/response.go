package account

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LoginPayload is the structured body returned by the login endpoint for programmatic requests.
type LoginPayload struct {
	Success     bool   `json:"success"`
	RequiresTwo bool   `json:"requires_2fa,omitempty"`
	Error       string `json:"error,omitempty"`
}

// VerificationPayload is the body returned by the verification endpoint.
type VerificationPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ForgotPasswordPayload is the body returned by the forgot-password endpoint.
type ForgotPasswordPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LooksLikeHTML detects a rendered page by its leading document markers.
func LooksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html")
}

// ParseLoginResponse turns the raw login response text into an outcome.
// HTML bodies yield ErrHTMLResponse; anything else that is not JSON yields ErrMalformedResponse.
func ParseLoginResponse(body []byte) (LoginOutcome, error) {
	if LooksLikeHTML(string(body)) {
		return LoginOutcome{}, ErrHTMLResponse
	}

	var payload LoginPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return LoginOutcome{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.Outcome(), nil
}

// Outcome maps the wire payload onto its tagged variant.
func (p LoginPayload) Outcome() LoginOutcome {
	switch {
	case p.Success && p.RequiresTwo:
		return LoginOutcome{Kind: OutcomeRequiresSecondFactor}
	case p.Success:
		return LoginOutcome{Kind: OutcomeAccepted}
	default:
		return LoginOutcome{Kind: OutcomeRejected, Reason: p.Error}
	}
}

// Outcome maps the wire payload onto a VerificationOutcome.
func (p VerificationPayload) Outcome() VerificationOutcome {
	if p.Success {
		return VerificationOutcome{Accepted: true}
	}
	return VerificationOutcome{Reason: p.Error}
}

// Outcome maps the wire payload onto a ForgotPasswordOutcome.
func (p ForgotPasswordPayload) Outcome() ForgotPasswordOutcome {
	return ForgotPasswordOutcome{Success: p.Success, Message: p.Message, Error: p.Error}
}
