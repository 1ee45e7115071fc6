package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/ui"
)

// Messages and labels of the forgot-password dialog.
const (
	MsgInvalidEmail = "Please enter a valid email address"
	MsgLinkSent     = "Reset link sent! Check your email."
	MsgSendFailed   = "Failed to send reset link"
	MsgError        = "An error occurred. Please try again."
	LabelSend       = "Send Reset Link"
	LabelSending    = "Sending..."

	DefaultDismissDelay = 3 * time.Second
)

// ErrSendInProgress is returned while the send control is disabled by an earlier send.
var ErrSendInProgress = errors.New("reset link request already in progress")

// Controller runs the forgot-password dialog on the login page.
type Controller struct {
	gateway      account.RecoveryGateway
	dismissDelay time.Duration
	afterFunc    func(time.Duration, func()) *time.Timer

	mu      sync.Mutex
	modal   ui.Modal
	email   string
	focused bool
	status  ui.Status
	send    *ui.Control
	closer  *time.Timer
}

// NewController constructs a hidden dialog that auto-closes dismissDelay after a successful send.
func NewController(gateway account.RecoveryGateway, dismissDelay time.Duration) *Controller {
	return &Controller{
		gateway:      gateway,
		dismissDelay: dismissDelay,
		afterFunc:    time.AfterFunc,
		send:         ui.NewControl(LabelSend),
	}
}

// Open shows the dialog and focuses the email input.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Show()
	c.focused = true
}

// Cancel hides the dialog and clears its input and status.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.email = ""
}

func (c *Controller) closeLocked() {
	if c.closer != nil {
		c.closer.Stop()
		c.closer = nil
	}
	c.modal.Hide()
	c.focused = false
	c.status.Clear()
	c.send.Restore()
}

// SetEmail updates the email input.
func (c *Controller) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
}

// Send requests a reset link for the entered address.
func (c *Controller) Send(ctx context.Context) error {
	c.mu.Lock()
	if c.send.Disabled() {
		c.mu.Unlock()
		return ErrSendInProgress
	}
	email := strings.TrimSpace(c.email)
	if email == "" || !account.ValidEmail(email) {
		c.status.Set(MsgInvalidEmail, ui.KindError)
		c.mu.Unlock()
		return account.ErrInvalidEmail
	}
	c.send.Busy(LabelSending)
	c.mu.Unlock()

	outcome, err := c.gateway.ForgotPassword(ctx, email)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status.Set(MsgError, ui.KindError)
		c.send.Restore()
		return fmt.Errorf("forgot password: %w", err)
	}
	if !outcome.Success {
		msg := outcome.Error
		if msg == "" {
			msg = MsgSendFailed
		}
		c.status.Set(msg, ui.KindError)
		c.send.Restore()
		return nil
	}

	msg := outcome.Message
	if msg == "" {
		msg = MsgLinkSent
	}
	c.status.Set(msg, ui.KindSuccess)
	c.email = ""
	var closer *time.Timer
	closer = c.afterFunc(c.dismissDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A reopened dialog belongs to a later send.
		if c.closer != closer {
			return
		}
		c.closer = nil
		c.closeLocked()
	})
	c.closer = closer
	return nil
}

// Visible reports whether the dialog is shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal.Visible()
}

// Email returns the email input value.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Status returns the dialog's status text and kind.
func (c *Controller) Status() (string, ui.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.Text(), c.status.Kind()
}

// SendControl returns the send button's label and disabled flag.
func (c *Controller) SendControl() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send.Label(), c.send.Disabled()
}
