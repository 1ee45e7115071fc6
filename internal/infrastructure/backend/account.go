package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"

	"wellness/portal/internal/domain/account"
)

// SubmitLogin posts the login form as a programmatic request. The raw body is returned
// whatever the status, since rendered error pages carry the verdict too.
func (c *Client) SubmitLogin(ctx context.Context, action string, form neturl.Values) ([]byte, error) {
	form, err := c.withToken(ctx, form)
	if err != nil {
		return nil, err
	}
	body, _, err := c.postForm(ctx, action, form, true)
	if err != nil {
		return nil, fmt.Errorf("submit login: %w", err)
	}
	return body, nil
}

// VerifyCode posts the second-factor code as JSON.
func (c *Client) VerifyCode(ctx context.Context, attempt account.VerificationAttempt) (account.VerificationOutcome, error) {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return account.VerificationOutcome{}, err
	}
	payload, err := json.Marshal(map[string]string{"code": attempt.Code})
	if err != nil {
		return account.VerificationOutcome{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.cfg.VerifyPath, bytes.NewReader(payload))
	if err != nil {
		return account.VerificationOutcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", requestedWith)
	req.Header.Set(c.cfg.CSRFHeader, token)

	body, _, err := c.do(req)
	if err != nil {
		return account.VerificationOutcome{}, fmt.Errorf("verify code: %w", err)
	}
	var reply account.VerificationPayload
	if err := decodeJSON(body, &reply); err != nil {
		return account.VerificationOutcome{}, err
	}
	return reply.Outcome(), nil
}

// ForgotPassword asks the backend to mail a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (account.ForgotPasswordOutcome, error) {
	form, err := c.withToken(ctx, neturl.Values{"email": {email}})
	if err != nil {
		return account.ForgotPasswordOutcome{}, err
	}
	body, _, err := c.postForm(ctx, c.cfg.ForgotPasswordPath, form, true)
	if err != nil {
		return account.ForgotPasswordOutcome{}, fmt.Errorf("forgot password: %w", err)
	}
	var reply account.ForgotPasswordPayload
	if err := decodeJSON(body, &reply); err != nil {
		return account.ForgotPasswordOutcome{}, err
	}
	return reply.Outcome(), nil
}

// LoadProvinces fetches the regions of country as [code, name] pairs.
func (c *Client) LoadProvinces(ctx context.Context, country string) ([]account.Province, error) {
	path := c.cfg.ProvincesPath + "?" + neturl.Values{"country": {country}}.Encode()
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Requested-With", requestedWith)

	body, resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("load provinces: %w", err)
	}
	if !success(resp) {
		return nil, statusError(resp)
	}

	var pairs [][]string
	if err := decodeJSON(body, &pairs); err != nil {
		return nil, err
	}
	provinces := make([]account.Province, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 {
			continue
		}
		provinces = append(provinces, account.Province{Code: p[0], Name: p[1]})
	}
	return provinces, nil
}

// SubmitRegistration posts the signup form the way a browser would. Landing on the home page
// means the account was created and the session logged in.
func (c *Client) SubmitRegistration(ctx context.Context, reg account.Registration) (account.RegistrationResult, error) {
	form, err := c.withToken(ctx, registrationForm(reg))
	if err != nil {
		return account.RegistrationResult{}, err
	}
	body, resp, err := c.postForm(ctx, c.cfg.RegisterPath, form, false)
	if err != nil {
		return account.RegistrationResult{}, fmt.Errorf("submit registration: %w", err)
	}
	if landedOn(resp, c.cfg.HomePath) && success(resp) {
		return account.RegistrationResult{Accepted: true}, nil
	}
	if !success(resp) {
		return account.RegistrationResult{}, statusError(resp)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return account.RegistrationResult{}, fmt.Errorf("parse registration page: %w", err)
	}
	return account.RegistrationResult{FocusField: firstErrorField(doc)}, nil
}

func registrationForm(reg account.Registration) neturl.Values {
	form := neturl.Values{}
	set := func(key, value string) {
		if value != "" {
			form.Set(key, value)
		}
	}
	form.Set("account_type", string(reg.Type))
	set("email", reg.Email)
	set("first_name", reg.FirstName)
	set("last_name", reg.LastName)
	set("date_of_birth", reg.DateOfBirth)
	set("password1", reg.Password)
	set("password2", reg.ConfirmPassword)
	set("country", reg.Country)
	set("province", reg.Province)
	set("street", reg.Street)
	set("phone_number", reg.PhoneNumber)
	switch reg.Type {
	case account.AccountClient:
		set("emergency_contact_name", reg.EmergencyContactName)
		set("emergency_contact_phone", reg.EmergencyContactPhone)
	case account.AccountTherapist:
		set("license_number", reg.LicenseNumber)
		for _, s := range reg.Specialties {
			form.Add("specialty", s)
		}
	}
	return form
}

// withToken returns a copy of form carrying the anti-forgery field.
func (c *Client) withToken(ctx context.Context, form neturl.Values) (neturl.Values, error) {
	out := make(neturl.Values, len(form)+1)
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}
	if out.Get(c.cfg.CSRFField) != "" {
		return out, nil
	}
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return nil, err
	}
	out.Set(c.cfg.CSRFField, token)
	return out, nil
}

func decodeJSON(body []byte, v any) error {
	if account.LooksLikeHTML(string(body)) {
		return account.ErrHTMLResponse
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", account.ErrMalformedResponse, err)
	}
	return nil
}
