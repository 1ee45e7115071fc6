package login

import (
	"context"
	"net/url"
	"sync"
	"time"

	"wellness/portal/internal/domain/account"
)

type stubGateway struct {
	mu          sync.Mutex
	loginBody   []byte
	loginErr    error
	loginCalls  int
	lastForm    url.Values
	lastAction  string
	verify      account.VerificationOutcome
	verifyErr   error
	verifyCalls int
	lastCode    string
	// loginGate, when set, blocks SubmitLogin until it is closed; loginEntered is signalled first.
	loginGate    chan struct{}
	loginEntered chan struct{}
	// gate, when set, blocks VerifyCode until it is closed or the request context ends.
	gate chan struct{}
	// entered is signalled once VerifyCode starts waiting on gate.
	entered chan struct{}
}

func (g *stubGateway) SubmitLogin(_ context.Context, action string, form url.Values) ([]byte, error) {
	g.mu.Lock()
	g.loginCalls++
	g.lastForm = form
	g.lastAction = action
	gate, entered := g.loginGate, g.loginEntered
	body, err := g.loginBody, g.loginErr
	g.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}
	return body, err
}

func (g *stubGateway) VerifyCode(ctx context.Context, attempt account.VerificationAttempt) (account.VerificationOutcome, error) {
	g.mu.Lock()
	g.verifyCalls++
	g.lastCode = attempt.Code
	gate, entered := g.gate, g.entered
	outcome, err := g.verify, g.verifyErr
	g.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			// A real transport would fail here; a late reply is modelled by returning the
			// canned outcome anyway.
		}
	}
	return outcome, err
}

func (g *stubGateway) calls() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loginCalls, g.verifyCalls
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return n.err
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type manualClock struct {
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every scheduled callback that has not been stopped.
func (c *manualClock) fire() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.fn()
		}
	}
}

func newTestFlow(gw *stubGateway) (*CredentialController, *VerificationController, *recordingNavigator, *manualClock) {
	nav := &recordingNavigator{}
	clock := &manualClock{}
	verifier := NewVerificationController(gw, nav, "/", DefaultRedirectGap)
	verifier.afterFunc = clock.AfterFunc
	creds := NewCredentialController(gw, nav, verifier, "/accounts/login/", "/")
	return creds, verifier, nav, clock
}
