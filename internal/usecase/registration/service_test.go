package registration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	provinces   []account.Province
	provinceErr error
	result      account.RegistrationResult
	submitErr   error
	submitted   []account.Registration
}

func (g *stubGateway) LoadProvinces(_ context.Context, _ string) ([]account.Province, error) {
	return g.provinces, g.provinceErr
}

func (g *stubGateway) SubmitRegistration(_ context.Context, reg account.Registration) (account.RegistrationResult, error) {
	g.submitted = append(g.submitted, reg)
	return g.result, g.submitErr
}

func validClient() account.Registration {
	return account.Registration{
		Email:           "ada@example.com",
		FirstName:       "Ada",
		DateOfBirth:     "1990-12-10",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	}
}

func TestTabsSwitchTitle(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "")
	assert.Equal(t, account.AccountClient, ctrl.ActiveTab())
	assert.Equal(t, "Register as a Client", ctrl.Title())

	ctrl.SelectTab("therapist")
	assert.Equal(t, account.AccountTherapist, ctrl.ActiveTab())
	assert.Equal(t, "Register as a Therapist", ctrl.Title())

	ctrl.SelectTab("admin")
	assert.Equal(t, account.AccountTherapist, ctrl.ActiveTab())

	assert.Equal(t, account.AccountTherapist, NewController(&stubGateway{}, "therapist").ActiveTab())
}

func TestValidateSignupReportsEachField(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "client")

	ok := ctrl.ValidateSignup(account.Registration{
		Email:           "nope",
		FirstName:       "Ada L",
		Password:        "abc",
		ConfirmPassword: "abd",
	})

	require.False(t, ok)
	expect := map[string]string{
		FieldEmail:           MsgInvalidEmail,
		FieldFirstName:       MsgInvalidName,
		FieldDateOfBirth:     MsgDateOfBirth,
		FieldPassword:        MsgWeakPassword,
		FieldConfirmPassword: MsgPasswordMismatch,
	}
	for name, want := range expect {
		id := FieldID(account.AccountClient, name)
		got, found := ctrl.FieldError(id)
		assert.True(t, found, id)
		assert.Equal(t, want, got, id)
		assert.True(t, ctrl.Invalid(id), id)
	}

	require.True(t, ctrl.ValidateSignup(validClient()))
	for name := range expect {
		_, found := ctrl.FieldError(FieldID(account.AccountClient, name))
		assert.False(t, found, name)
	}
}

func TestTherapistRequiresProfessionalFields(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "therapist")

	require.False(t, ctrl.ValidateSignup(validClient()))
	for name, want := range map[string]string{
		FieldLicenseNumber: MsgLicenseRequired,
		FieldSpecialty:     MsgSpecialtyRequired,
		FieldCountry:       MsgCountryRequired,
		FieldProvince:      MsgProvinceRequired,
	} {
		got, _ := ctrl.FieldError(FieldID(account.AccountTherapist, name))
		assert.Equal(t, want, got)
	}

	reg := validClient()
	reg.LicenseNumber = "LIC-42"
	reg.Specialties = []string{account.Specialties[0]}
	reg.Country = "CA"
	reg.Province = "ON"
	assert.True(t, ctrl.ValidateSignup(reg))
}

func TestFieldHandlersDoNotDuplicate(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "client")
	id := FieldID(account.AccountClient, FieldEmail)

	assert.False(t, ctrl.OnEmail("bad"))
	assert.False(t, ctrl.OnEmail("still bad"))
	msg, _ := ctrl.FieldError(id)
	assert.Equal(t, MsgInvalidEmail, msg)

	assert.True(t, ctrl.OnEmail("ada@example.com"))
	_, found := ctrl.FieldError(id)
	assert.False(t, found)

	assert.False(t, ctrl.OnConfirmPassword("Secret1!", "Secret2!"))
	assert.True(t, ctrl.OnConfirmPassword("Secret1!", "Secret1!"))
	assert.False(t, ctrl.OnName("4da"))
	assert.False(t, ctrl.OnDateOfBirth(" "))
}

func TestPasswordChecklist(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "client")

	list := ctrl.OnPasswordInput("abcdef")
	assert.True(t, list["length-check"])
	assert.False(t, list["number-check"])

	list = ctrl.OnPasswordInput("abcde1!")
	assert.True(t, list.Complete())
	_, found := ctrl.FieldError(FieldID(account.AccountClient, FieldPassword))
	assert.False(t, found)
}

func TestLoadProvincesStates(t *testing.T) {
	gw := &stubGateway{provinces: []account.Province{{Code: "ON", Name: "Ontario"}, {Code: "QC", Name: "Quebec"}}}
	ctrl := NewController(gw, "client")

	options, disabled := ctrl.Provinces()
	assert.True(t, disabled)
	assert.Equal(t, []ui.Option{{Label: OptSelectCountryFirst}}, options)

	require.NoError(t, ctrl.LoadProvinces(context.Background(), "CA"))
	options, disabled = ctrl.Provinces()
	assert.False(t, disabled)
	assert.Equal(t, []ui.Option{
		{Label: OptSelectProvince},
		{Value: "ON", Label: "Ontario"},
		{Value: "QC", Label: "Quebec"},
	}, options)

	require.NoError(t, ctrl.LoadProvinces(context.Background(), ""))
	options, disabled = ctrl.Provinces()
	assert.True(t, disabled)
	assert.Equal(t, OptSelectCountryFirst, options[0].Label)

	gw.provinceErr = errors.New("500")
	require.Error(t, ctrl.LoadProvinces(context.Background(), "US"))
	options, disabled = ctrl.Provinces()
	assert.True(t, disabled)
	assert.Equal(t, []ui.Option{{Label: OptLoadError}}, options)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	gw := &stubGateway{}
	ctrl := NewController(gw, "client")

	ok, err := ctrl.Submit(context.Background(), account.Registration{Email: "x"})

	require.ErrorIs(t, err, ErrInvalidRegistration)
	assert.False(t, ok)
	assert.Empty(t, gw.submitted)
}

func TestSubmitAcceptedAndRejected(t *testing.T) {
	gw := &stubGateway{result: account.RegistrationResult{Accepted: true}}
	ctrl := NewController(gw, "client")

	ok, err := ctrl.Submit(context.Background(), validClient())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, gw.submitted, 1)
	assert.Equal(t, account.AccountClient, gw.submitted[0].Type)

	gw.result = account.RegistrationResult{FocusField: "id_client_email"}
	ok, err = ctrl.Submit(context.Background(), validClient())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "id_client_email", ctrl.Focused())
}

func TestRenderShowsChecklist(t *testing.T) {
	ctrl := NewController(&stubGateway{}, "client")
	ctrl.OnPasswordInput("abc1")

	var buf bytes.Buffer
	require.NoError(t, ctrl.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Register as a Client")
	assert.Contains(t, out, "[x] Contains a number")
	assert.Contains(t, out, "[ ] At least 6 characters")
}
