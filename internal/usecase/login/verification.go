package login

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/ui"

	"github.com/google/uuid"
)

// State is the lifecycle position of the verification step.
type State int

const (
	// StateHidden means the step is closed.
	StateHidden State = iota
	// StateVisible means the step is open and accepting a code, possibly after a failure.
	StateVisible
	// StateVerifying means a code is with the backend.
	StateVerifying
	// StateRedirecting means the code was accepted and navigation is scheduled.
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateVerifying:
		return "verifying"
	case StateRedirecting:
		return "redirecting"
	default:
		return "hidden"
	}
}

// VerificationController runs the one-time code step that follows a login requiring a second factor.
type VerificationController struct {
	gateway       account.LoginGateway
	nav           account.Navigator
	homePath      string
	redirectDelay time.Duration
	afterFunc     AfterFunc
	newToken      func() string

	mu       sync.Mutex
	state    State
	code     string
	focused  bool
	modal    ui.Modal
	status   ui.Status
	verify   *ui.Control
	token    string
	cancel   context.CancelFunc
	redirect Timer
	pending  *redirectSignal
}

// redirectSignal publishes the result of one scheduled redirect exactly once.
type redirectSignal struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newRedirectSignal() *redirectSignal {
	return &redirectSignal{done: make(chan struct{})}
}

func (r *redirectSignal) finish(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// NewVerificationController constructs a hidden verification step.
func NewVerificationController(gateway account.LoginGateway, nav account.Navigator, homePath string, redirectDelay time.Duration) *VerificationController {
	return &VerificationController{
		gateway:       gateway,
		nav:           nav,
		homePath:      homePath,
		redirectDelay: redirectDelay,
		afterFunc:     realAfterFunc,
		newToken:      uuid.NewString,
		verify:        ui.NewControl(LabelVerify),
	}
}

// Open shows the step with an empty, focused code input.
func (v *VerificationController) Open() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resetLocked()
	v.state = StateVisible
	v.modal.Show()
	v.focused = true
}

// Input applies the code field's filter to raw keystrokes and returns the resulting value.
func (v *VerificationController) Input(raw string) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.code = account.FilterCodeInput(raw)
	return v.code
}

// KeyPress triggers verification when key is the submit key.
func (v *VerificationController) KeyPress(ctx context.Context, key string) error {
	if key != KeyEnter {
		return nil
	}
	return v.Verify(ctx)
}

// Verify submits the current code. Backend rejections and transport failures are rendered
// into the step's status; the returned error reports local refusals, transport failures and
// replies that arrived after the step was dismissed.
func (v *VerificationController) Verify(ctx context.Context) error {
	v.mu.Lock()
	switch v.state {
	case StateHidden:
		v.mu.Unlock()
		return ErrNotVisible
	case StateVerifying, StateRedirecting:
		v.mu.Unlock()
		return ErrVerifyInProgress
	}
	attempt := account.VerificationAttempt{Code: v.code}
	if !attempt.Valid() {
		v.status.Set(MsgCodeLength, ui.KindError)
		v.mu.Unlock()
		return account.ErrInvalidCodeLength
	}

	v.verify.Busy(LabelVerifying)
	v.state = StateVerifying
	token := v.newToken()
	reqCtx, cancel := context.WithCancel(ctx)
	v.token = token
	v.cancel = cancel
	v.mu.Unlock()

	outcome, err := v.gateway.VerifyCode(reqCtx, attempt)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()
	if v.token != token {
		return ErrStaleResponse
	}
	v.token = ""
	v.cancel = nil

	if err != nil {
		v.status.Set(MsgVerifyFailure, ui.KindError)
		v.verify.Restore()
		v.state = StateVisible
		return fmt.Errorf("verify code: %w", err)
	}

	if !outcome.Accepted {
		reason := outcome.Reason
		if reason == "" {
			reason = MsgInvalidCode
		}
		v.status.Set(reason, ui.KindError)
		v.code = ""
		v.focused = true
		v.verify.Restore()
		v.state = StateVisible
		return nil
	}

	v.status.Set(MsgVerifySuccess, ui.KindSuccess)
	v.state = StateRedirecting
	signal := newRedirectSignal()
	v.pending = signal
	navCtx := context.WithoutCancel(ctx)
	v.redirect = v.afterFunc(v.redirectDelay, func() {
		v.finishRedirect(navCtx, token, signal)
	})
	return nil
}

func (v *VerificationController) finishRedirect(ctx context.Context, token string, signal *redirectSignal) {
	v.mu.Lock()
	if v.state != StateRedirecting || v.pending != signal {
		v.mu.Unlock()
		return
	}
	v.redirect = nil
	v.mu.Unlock()

	err := v.nav.Navigate(ctx, v.homePath)
	if err != nil {
		err = fmt.Errorf("redirect after verification %s: %w", token, err)
	}
	signal.finish(err)
}

// WaitRedirect blocks until the scheduled post-verification navigation has run, the step
// was dismissed, or ctx ends. It returns immediately with ErrRedirectCancelled when no
// redirect is pending.
func (v *VerificationController) WaitRedirect(ctx context.Context) error {
	v.mu.Lock()
	signal := v.pending
	v.mu.Unlock()
	if signal == nil {
		return ErrRedirectCancelled
	}

	select {
	case <-signal.done:
		return signal.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dismiss closes the step from any state. An in-flight request is cancelled and its reply,
// should one still arrive, is discarded; a scheduled redirect is cancelled.
func (v *VerificationController) Dismiss() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	v.resetLocked()
}

func (v *VerificationController) resetLocked() {
	if v.redirect != nil {
		v.redirect.Stop()
		v.redirect = nil
	}
	if v.pending != nil {
		v.pending.finish(ErrRedirectCancelled)
		v.pending = nil
	}
	v.token = ""
	v.cancel = nil
	v.state = StateHidden
	v.modal.Hide()
	v.code = ""
	v.focused = false
	v.status.Clear()
	v.verify.Restore()
}

// State returns the current lifecycle state.
func (v *VerificationController) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Visible reports whether the step's modal is shown.
func (v *VerificationController) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal.Visible()
}

// Code returns the filtered code field value.
func (v *VerificationController) Code() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.code
}

// Focused reports whether the code input holds focus.
func (v *VerificationController) Focused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focused
}

// Status returns the status line text and kind.
func (v *VerificationController) Status() (string, ui.Kind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status.Text(), v.status.Kind()
}

// VerifyControl returns the verify button's label and disabled flag.
func (v *VerificationController) VerifyControl() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.verify.Label(), v.verify.Disabled()
}

// Render writes the step's status for a terminal.
func (v *VerificationController) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.modal.Visible() {
		return nil
	}
	return v.status.Render(w)
}
