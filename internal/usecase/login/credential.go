package login

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"

	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/ui"
)

// Step reports how a login submit ended.
type Step int

const (
	// StepBlocked means local validation refused the submit; nothing was sent.
	StepBlocked Step = iota
	// StepRejected means the backend refused the credentials.
	StepRejected
	// StepServerError means the reply was unusable or never arrived.
	StepServerError
	// StepSecondFactor means the verification step is now open.
	StepSecondFactor
	// StepNavigated means the session moved to the home page.
	StepNavigated
)

func (s Step) String() string {
	switch s {
	case StepRejected:
		return "rejected"
	case StepServerError:
		return "server_error"
	case StepSecondFactor:
		return "second_factor"
	case StepNavigated:
		return "navigated"
	default:
		return "blocked"
	}
}

// CredentialController validates and relays the login form.
type CredentialController struct {
	gateway  account.LoginGateway
	nav      account.Navigator
	verifier *VerificationController
	action   string
	homePath string

	mu       sync.Mutex
	form     *ui.Form
	inFlight bool
}

// NewCredentialController wires the login form to its backend and to the verification step
// opened when a second factor is required. An empty action posts back to the login page.
func NewCredentialController(gateway account.LoginGateway, nav account.Navigator, verifier *VerificationController, action, homePath string) *CredentialController {
	form := ui.NewForm(FieldEmail, FieldPassword).
		Label(FieldEmail, "Email").
		Label(FieldPassword, "Password")
	return &CredentialController{
		gateway:  gateway,
		nav:      nav,
		verifier: verifier,
		action:   action,
		homePath: homePath,
		form:     form,
	}
}

// Submit runs one submit of the login form. The returned error is nil for every outcome the
// backend decided, including rejections; it reports local refusals and unusable replies.
func (c *CredentialController) Submit(ctx context.Context, attempt account.LoginAttempt) (Step, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return StepBlocked, ErrSubmitInProgress
	}
	if !attempt.HasPassword() {
		c.form.SetInvalid(FieldPassword, true)
		c.form.SetFieldError(FieldPassword, MsgPasswordRequired)
		c.mu.Unlock()
		return StepBlocked, account.ErrPasswordRequired
	}
	c.form.SetInvalid(FieldPassword, false)
	c.form.ClearLocalError(FieldPassword)
	c.inFlight = true
	c.mu.Unlock()

	body, err := c.gateway.SubmitLogin(ctx, c.action, url.Values{
		"username": {attempt.Email},
		"password": {attempt.Password},
	})

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.serverErrorLocked(MsgNetworkError)
		c.mu.Unlock()
		return StepServerError, fmt.Errorf("submit login: %w", err)
	}

	outcome, err := account.ParseLoginResponse(body)
	if err != nil {
		msg := MsgUnexpectedResponse
		if errors.Is(err, account.ErrHTMLResponse) {
			msg = MsgServerError
			log.Printf("login: backend rendered a page instead of a structured reply")
		}
		c.serverErrorLocked(msg)
		c.mu.Unlock()
		return StepServerError, err
	}

	switch outcome.Kind {
	case account.OutcomeRequiresSecondFactor:
		c.clearRejectionLocked()
		c.mu.Unlock()
		c.verifier.Open()
		return StepSecondFactor, nil
	case account.OutcomeAccepted:
		c.clearRejectionLocked()
		c.mu.Unlock()
		if err := c.nav.Navigate(ctx, c.homePath); err != nil {
			return StepNavigated, fmt.Errorf("navigate home: %w", err)
		}
		return StepNavigated, nil
	default:
		reason := outcome.Reason
		if reason == "" {
			reason = MsgInvalidCredentials
		}
		c.serverErrorLocked(reason)
		c.form.SetInvalid(FieldEmail, true)
		c.form.SetInvalid(FieldPassword, true)
		c.mu.Unlock()
		return StepRejected, nil
	}
}

func (c *CredentialController) serverErrorLocked(message string) {
	c.form.ClearServerErrors()
	c.form.SetServerError(FieldPassword, message)
}

func (c *CredentialController) clearRejectionLocked() {
	c.form.ClearServerErrors()
	c.form.SetInvalid(FieldEmail, false)
	c.form.SetInvalid(FieldPassword, false)
}

// FieldError returns the message attached to a login field.
func (c *CredentialController) FieldError(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.FieldError(id)
}

// SlotCount returns how many error nodes a login field carries.
func (c *CredentialController) SlotCount(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.SlotCount(id)
}

// Invalid reports whether a login field carries the error-state marker.
func (c *CredentialController) Invalid(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Invalid(id)
}

// Verifier returns the verification step opened by this form.
func (c *CredentialController) Verifier() *VerificationController {
	return c.verifier
}

// Render writes the form's error annotations for a terminal.
func (c *CredentialController) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Render(w)
}
