package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/ui"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field names shared by both profile forms; ids are prefixed per tab.
const (
	FieldEmail           = "email"
	FieldFirstName       = "first_name"
	FieldDateOfBirth     = "date_of_birth"
	FieldPassword        = "password1"
	FieldConfirmPassword = "password2"
	FieldCountry         = "country"
	FieldProvince        = "province"
	FieldLicenseNumber   = "license_number"
	FieldSpecialty       = "specialty"
)

// Validation messages.
const (
	MsgInvalidEmail      = "Invalid email format"
	MsgInvalidName       = "Invalid name"
	MsgDateOfBirth       = "Date of birth is required"
	MsgWeakPassword      = "Password must be at least 6 characters, contain a special character and a number"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgLicenseRequired   = "License number is required"
	MsgSpecialtyRequired = "Select at least one specialty"
	MsgCountryRequired   = "Country is required"
	MsgProvinceRequired  = "Province is required"
)

// Province select placeholders.
const (
	OptSelectCountryFirst = "Select Country First"
	OptLoading            = "Loading..."
	OptSelectProvince     = "Select State/Province"
	OptLoadError          = "Error loading regions"
)

// ErrInvalidRegistration is returned when local validation blocks a signup.
var ErrInvalidRegistration = errors.New("registration form has errors")

type profileForm struct {
	form      *ui.Form
	provinces ui.Select
	checklist account.Checklist
	// loadSeq fences province replies: only the latest request may fill the select.
	loadSeq uint64
}

// Controller drives the two-tab signup page.
type Controller struct {
	gateway account.RegistrationGateway
	titler  cases.Caser

	mu    sync.Mutex
	tab   account.AccountType
	forms map[account.AccountType]*profileForm
}

// NewController builds the signup page with initialTab active; unknown tabs fall back to client.
func NewController(gateway account.RegistrationGateway, initialTab string) *Controller {
	c := &Controller{
		gateway: gateway,
		titler:  cases.Title(language.English),
		forms:   make(map[account.AccountType]*profileForm, 2),
	}
	for _, t := range []account.AccountType{account.AccountClient, account.AccountTherapist} {
		pf := &profileForm{form: ui.NewForm(), checklist: account.CheckPassword("")}
		for _, name := range fieldsFor(t) {
			pf.form.Label(FieldID(t, name), strings.ReplaceAll(name, "_", " "))
		}
		pf.provinces.Replace(true, ui.Option{Label: OptSelectCountryFirst})
		c.forms[t] = pf
	}

	c.tab = account.AccountClient
	if t, err := account.ParseAccountType(initialTab); err == nil {
		c.tab = t
	}
	return c
}

func fieldsFor(t account.AccountType) []string {
	fields := []string{FieldEmail, FieldFirstName, FieldDateOfBirth, FieldPassword, FieldConfirmPassword}
	if t == account.AccountTherapist {
		fields = append(fields, FieldLicenseNumber, FieldSpecialty, FieldCountry, FieldProvince)
	}
	return fields
}

// FieldID returns the element id of a field on the given tab.
func FieldID(t account.AccountType, name string) string {
	return "id_" + string(t) + "_" + name
}

// SelectTab switches the visible form. Unknown tabs are ignored.
func (c *Controller) SelectTab(tab string) {
	t, err := account.ParseAccountType(tab)
	if err != nil {
		log.Printf("registration: ignoring unknown tab %q", tab)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = t
}

// ActiveTab returns the account type of the visible form.
func (c *Controller) ActiveTab() account.AccountType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// Title returns the heading of the visible form.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return "Register as a " + c.titler.String(string(c.tab))
}

func (c *Controller) active() (account.AccountType, *profileForm) {
	return c.tab, c.forms[c.tab]
}

func mark(f *ui.Form, id string, ok bool, message string) bool {
	f.SetInvalid(id, !ok)
	if ok {
		f.ClearFieldError(id)
	} else {
		f.SetFieldError(id, message)
	}
	return ok
}

// OnEmail validates the email field as it changes.
func (c *Controller) OnEmail(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, pf := c.active()
	return mark(pf.form, FieldID(t, FieldEmail), account.ValidEmail(value), MsgInvalidEmail)
}

// OnName validates the first name field as it changes.
func (c *Controller) OnName(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, pf := c.active()
	return mark(pf.form, FieldID(t, FieldFirstName), account.ValidName(value), MsgInvalidName)
}

// OnDateOfBirth validates the date of birth field as it changes.
func (c *Controller) OnDateOfBirth(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, pf := c.active()
	return mark(pf.form, FieldID(t, FieldDateOfBirth), account.ValidDateOfBirth(value), MsgDateOfBirth)
}

// OnConfirmPassword checks the confirmation against the password.
func (c *Controller) OnConfirmPassword(password, confirm string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, pf := c.active()
	return mark(pf.form, FieldID(t, FieldConfirmPassword), password == confirm, MsgPasswordMismatch)
}

// OnPasswordInput recomputes the password checklist. It never attaches a field error.
func (c *Controller) OnPasswordInput(value string) account.Checklist {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	pf.checklist = account.CheckPassword(value)
	return pf.checklist
}

// Checklist returns the latest password checklist of the visible form.
func (c *Controller) Checklist() account.Checklist {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	return pf.checklist
}

// ValidateSignup validates every field of reg against the visible form and reports whether
// the signup may be submitted.
func (c *Controller) ValidateSignup(reg account.Registration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked(reg)
}

func (c *Controller) validateLocked(reg account.Registration) bool {
	t, pf := c.active()
	f := pf.form
	id := func(name string) string { return FieldID(t, name) }

	valid := true
	valid = mark(f, id(FieldEmail), account.ValidEmail(reg.Email), MsgInvalidEmail) && valid
	valid = mark(f, id(FieldDateOfBirth), account.ValidDateOfBirth(reg.DateOfBirth), MsgDateOfBirth) && valid
	valid = mark(f, id(FieldFirstName), account.ValidName(reg.FirstName), MsgInvalidName) && valid
	pf.checklist = account.CheckPassword(reg.Password)
	valid = mark(f, id(FieldPassword), pf.checklist.Complete(), MsgWeakPassword) && valid
	valid = mark(f, id(FieldConfirmPassword), reg.Password == reg.ConfirmPassword, MsgPasswordMismatch) && valid

	if t == account.AccountTherapist {
		valid = mark(f, id(FieldLicenseNumber), strings.TrimSpace(reg.LicenseNumber) != "", MsgLicenseRequired) && valid
		valid = mark(f, id(FieldSpecialty), len(reg.Specialties) > 0, MsgSpecialtyRequired) && valid
		valid = mark(f, id(FieldCountry), reg.Country != "", MsgCountryRequired) && valid
		valid = mark(f, id(FieldProvince), reg.Province != "", MsgProvinceRequired) && valid
	}
	return valid
}

// LoadProvinces refills the visible form's province select for country. Replies to
// superseded requests are dropped.
func (c *Controller) LoadProvinces(ctx context.Context, country string) error {
	c.mu.Lock()
	_, pf := c.active()
	pf.loadSeq++
	seq := pf.loadSeq
	if country == "" {
		pf.provinces.Replace(true, ui.Option{Label: OptSelectCountryFirst})
		c.mu.Unlock()
		return nil
	}
	pf.provinces.Replace(true, ui.Option{Label: OptLoading})
	c.mu.Unlock()

	provinces, err := c.gateway.LoadProvinces(ctx, country)

	c.mu.Lock()
	defer c.mu.Unlock()
	if pf.loadSeq != seq {
		return nil
	}
	if err != nil {
		pf.provinces.Replace(true, ui.Option{Label: OptLoadError})
		return fmt.Errorf("load provinces for %s: %w", country, err)
	}
	options := make([]ui.Option, 0, len(provinces)+1)
	options = append(options, ui.Option{Label: OptSelectProvince})
	for _, p := range provinces {
		options = append(options, ui.Option{Value: p.Code, Label: p.Name})
	}
	pf.provinces.Replace(false, options...)
	return nil
}

// Provinces returns the visible form's province options and whether the select is disabled.
func (c *Controller) Provinces() ([]ui.Option, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	return pf.provinces.Options(), pf.provinces.Disabled()
}

// Submit validates reg against the visible form and posts it. It reports whether the backend
// accepted the signup; on rejection the first field flagged by the backend receives focus.
func (c *Controller) Submit(ctx context.Context, reg account.Registration) (bool, error) {
	c.mu.Lock()
	reg.Type = c.tab
	if !c.validateLocked(reg) {
		c.mu.Unlock()
		return false, ErrInvalidRegistration
	}
	c.mu.Unlock()

	result, err := c.gateway.SubmitRegistration(ctx, reg)
	if err != nil {
		return false, fmt.Errorf("submit registration: %w", err)
	}
	if result.Accepted {
		return true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if result.FocusField != "" {
		c.forms[reg.Type].form.Focus(result.FocusField)
	}
	return false, nil
}

// FieldError returns the error attached to a field id on either tab.
func (c *Controller) FieldError(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, pf := range c.forms {
		if msg, ok := pf.form.FieldError(id); ok {
			return msg, true
		}
	}
	return "", false
}

// Invalid reports whether a field id on the visible tab carries the error-state marker.
func (c *Controller) Invalid(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	return pf.form.Invalid(id)
}

// Focused returns the field id holding focus on the visible tab.
func (c *Controller) Focused() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	return pf.form.Focused()
}

// Render writes the visible form's title, errors and checklist for a terminal.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pf := c.active()
	if _, err := fmt.Fprintf(w, "%s\n", "Register as a "+c.titler.String(string(c.tab))); err != nil {
		return err
	}
	if err := pf.form.Render(w); err != nil {
		return err
	}
	for _, rule := range account.PasswordRules {
		box := " "
		if pf.checklist[rule.Name] {
			box = "x"
		}
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", box, rule.Label); err != nil {
			return err
		}
	}
	return nil
}
