package login

import (
	"context"
	"errors"
	"testing"

	"wellness/portal/internal/domain/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBlocksBlankPassword(t *testing.T) {
	for _, password := range []string{"", "   ", "\t\n"} {
		gw := &stubGateway{}
		creds, _, _, _ := newTestFlow(gw)

		step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: password})

		require.ErrorIs(t, err, account.ErrPasswordRequired)
		assert.Equal(t, StepBlocked, step)
		loginCalls, _ := gw.calls()
		assert.Zero(t, loginCalls, "no request for password %q", password)
		msg, ok := creds.FieldError(FieldPassword)
		assert.True(t, ok)
		assert.Equal(t, MsgPasswordRequired, msg)
		assert.True(t, creds.Invalid(FieldPassword))
	}
}

func TestRepeatedBlankSubmitKeepsSingleError(t *testing.T) {
	creds, _, _, _ := newTestFlow(&stubGateway{})
	for i := 0; i < 3; i++ {
		_, _ = creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com"})
	}
	assert.Equal(t, 1, creds.SlotCount(FieldPassword))
}

func TestSubmitAcceptedNavigatesHome(t *testing.T) {
	gw := &stubGateway{loginBody: []byte(`{"success": true}`)}
	creds, verifier, nav, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})

	require.NoError(t, err)
	assert.Equal(t, StepNavigated, step)
	assert.Equal(t, []string{"/"}, nav.visited())
	assert.False(t, verifier.Visible())
	loginCalls, _ := gw.calls()
	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, "user@example.com", gw.lastForm.Get("username"))
	assert.Equal(t, "Secret1!", gw.lastForm.Get("password"))
	assert.Equal(t, "/accounts/login/", gw.lastAction)
}

func TestSubmitRequiringSecondFactorOpensVerification(t *testing.T) {
	gw := &stubGateway{loginBody: []byte(`{"success": true, "requires_2fa": true}`)}
	creds, verifier, nav, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})

	require.NoError(t, err)
	assert.Equal(t, StepSecondFactor, step)
	assert.True(t, verifier.Visible())
	assert.True(t, verifier.Focused())
	assert.Equal(t, StateVisible, verifier.State())
	assert.Empty(t, nav.visited())
}

func TestSubmitRejectedMarksFields(t *testing.T) {
	gw := &stubGateway{loginBody: []byte(`{"success": false, "error": "Account locked"}`)}
	creds, _, nav, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "wrong"})

	require.NoError(t, err)
	assert.Equal(t, StepRejected, step)
	msg, _ := creds.FieldError(FieldPassword)
	assert.Equal(t, "Account locked", msg)
	assert.True(t, creds.Invalid(FieldEmail))
	assert.True(t, creds.Invalid(FieldPassword))
	assert.Empty(t, nav.visited())

	gw.loginBody = []byte(`{"success": false}`)
	_, err = creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "wrong"})
	require.NoError(t, err)
	msg, _ = creds.FieldError(FieldPassword)
	assert.Equal(t, MsgInvalidCredentials, msg)
	assert.Equal(t, 1, creds.SlotCount(FieldPassword))
}

func TestSubmitHTMLResponseShowsServerError(t *testing.T) {
	gw := &stubGateway{loginBody: []byte("\n  <!DOCTYPE html><html><body>login</body></html>")}
	creds, _, nav, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})

	require.ErrorIs(t, err, account.ErrHTMLResponse)
	assert.Equal(t, StepServerError, step)
	msg, _ := creds.FieldError(FieldPassword)
	assert.Equal(t, MsgServerError, msg)
	assert.Empty(t, nav.visited())
}

func TestSubmitMalformedResponse(t *testing.T) {
	gw := &stubGateway{loginBody: []byte("ok")}
	creds, _, _, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})

	require.ErrorIs(t, err, account.ErrMalformedResponse)
	assert.Equal(t, StepServerError, step)
	msg, _ := creds.FieldError(FieldPassword)
	assert.Equal(t, MsgUnexpectedResponse, msg)
}

func TestSubmitNetworkFailure(t *testing.T) {
	gw := &stubGateway{loginErr: errors.New("connection refused")}
	creds, _, _, _ := newTestFlow(gw)

	step, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})

	require.Error(t, err)
	assert.Equal(t, StepServerError, step)
	msg, _ := creds.FieldError(FieldPassword)
	assert.Equal(t, MsgNetworkError, msg)
}

func TestSubmitClearsPasswordRequiredOnceFilled(t *testing.T) {
	gw := &stubGateway{loginBody: []byte(`{"success": true, "requires_2fa": true}`)}
	creds, _, _, _ := newTestFlow(gw)

	_, _ = creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com"})
	require.Equal(t, 1, creds.SlotCount(FieldPassword))

	_, err := creds.Submit(context.Background(), account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, 0, creds.SlotCount(FieldPassword))
	assert.False(t, creds.Invalid(FieldPassword))
}

func TestSubmitWhileAwaitingBackendIsRefused(t *testing.T) {
	gw := &stubGateway{
		loginBody:    []byte(`{"success": false}`),
		loginGate:    make(chan struct{}),
		loginEntered: make(chan struct{}, 1),
	}
	creds, _, _, _ := newTestFlow(gw)
	attempt := account.LoginAttempt{Email: "user@example.com", Password: "Secret1!"}

	done := make(chan Step, 1)
	go func() {
		step, _ := creds.Submit(context.Background(), attempt)
		done <- step
	}()
	<-gw.loginEntered

	step, err := creds.Submit(context.Background(), attempt)

	require.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Equal(t, StepBlocked, step)
	loginCalls, _ := gw.calls()
	assert.Equal(t, 1, loginCalls)

	close(gw.loginGate)
	assert.Equal(t, StepRejected, <-done)

	gw.mu.Lock()
	gw.loginGate = nil
	gw.mu.Unlock()
	step, err = creds.Submit(context.Background(), attempt)
	require.NoError(t, err)
	assert.Equal(t, StepRejected, step)
}
