package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldErrorIsIdempotent(t *testing.T) {
	form := NewForm("email")
	form.SetFieldError("email", "Invalid email format")
	form.SetFieldError("email", "Invalid email format")

	assert.Equal(t, 1, form.SlotCount("email"))
	assert.Len(t, form.Errors(), 1)
}

func TestSetFieldErrorReplacesDifferentMessage(t *testing.T) {
	form := NewForm("password")
	form.SetFieldError("password", "Password is required")
	form.SetServerError("password", "Invalid email or password")

	msg, ok := form.FieldError("password")
	require.True(t, ok)
	assert.Equal(t, "Invalid email or password", msg)
	assert.Equal(t, 1, form.SlotCount("password"))
}

func TestSetThenClearRestoresSlotCount(t *testing.T) {
	form := NewForm("name")
	before := form.SlotCount("name")

	form.SetFieldError("name", "Invalid name")
	form.ClearFieldError("name")

	assert.Equal(t, before, form.SlotCount("name"))
	form.ClearFieldError("name")
	form.ClearFieldError("unknown")
	assert.Equal(t, before, form.SlotCount("name"))
}

func TestClearServerErrorsKeepsLocalOnes(t *testing.T) {
	form := NewForm("email", "password")
	form.SetFieldError("email", "Invalid email format")
	form.SetServerError("password", "Network error")

	form.ClearServerErrors()

	_, emailErr := form.FieldError("email")
	_, passwordErr := form.FieldError("password")
	assert.True(t, emailErr)
	assert.False(t, passwordErr)
}

func TestClearLocalErrorLeavesServerMessage(t *testing.T) {
	form := NewForm("password")
	form.SetServerError("password", "Account locked")
	form.ClearLocalError("password")

	msg, ok := form.FieldError("password")
	assert.True(t, ok)
	assert.Equal(t, "Account locked", msg)
}

func TestInvalidMarker(t *testing.T) {
	form := NewForm("email")
	assert.Nil(t, form.Classes("email"))
	form.SetInvalid("email", true)
	assert.Equal(t, []string{ErrorClass}, form.Classes("email"))
	form.SetInvalid("email", false)
	assert.False(t, form.Invalid("email"))
}

func TestRenderListsErrorsInOrder(t *testing.T) {
	form := NewForm("email", "password").Label("email", "Email").Label("password", "Password")
	form.SetFieldError("password", "Password is required")
	form.SetFieldError("email", "Invalid email")

	var buf bytes.Buffer
	require.NoError(t, form.Render(&buf))
	assert.Equal(t, "  ! Email: Invalid email\n  ! Password: Password is required\n", buf.String())
}

func TestStatusOverwrites(t *testing.T) {
	var status Status
	status.Set("Please enter a 6-digit code", KindError)
	status.Set("Verification successful! Redirecting...", KindSuccess)

	assert.Equal(t, "Verification successful! Redirecting...", status.Text())
	assert.Equal(t, KindSuccess, status.Kind())
}

func TestControlBusyRestore(t *testing.T) {
	ctrl := NewControl("Verify Code")
	ctrl.Busy("Verifying...")
	assert.True(t, ctrl.Disabled())
	assert.Equal(t, "Verifying...", ctrl.Label())
	ctrl.Restore()
	assert.False(t, ctrl.Disabled())
	assert.Equal(t, "Verify Code", ctrl.Label())
}

func TestSelectReplace(t *testing.T) {
	var sel Select
	sel.Replace(true, Option{Label: "Loading..."})
	assert.True(t, sel.Disabled())
	assert.Equal(t, "Loading...", sel.Placeholder())

	sel.Replace(false, Option{Label: "Select State/Province"}, Option{Value: "ON", Label: "Ontario"})
	assert.Len(t, sel.Options(), 2)
	assert.False(t, sel.Disabled())
}
