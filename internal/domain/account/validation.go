package account

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	namePattern  = regexp.MustCompile(`^[a-zA-Z]+$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// ValidEmail reports whether email matches the address format accepted by the forms.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidName reports whether name is a single run of ASCII letters.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidDateOfBirth reports whether a date was supplied at all; the backend parses it.
func ValidDateOfBirth(date string) bool {
	return strings.TrimSpace(date) != ""
}

// SanitizeCode strips every non-digit character.
func SanitizeCode(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// FilterCodeInput applies the code field's input rules: digits only, at most CodeLength of them.
func FilterCodeInput(raw string) string {
	code := SanitizeCode(raw)
	if len(code) > CodeLength {
		code = code[:CodeLength]
	}
	return code
}

// PasswordRule is one line of the password checklist.
type PasswordRule struct {
	Name    string
	Label   string
	pattern *regexp.Regexp
}

// Satisfied reports whether password meets the rule.
func (r PasswordRule) Satisfied(password string) bool {
	return r.pattern.MatchString(password)
}

// PasswordRules are evaluated in display order.
var PasswordRules = []PasswordRule{
	{Name: "length-check", Label: "At least 6 characters", pattern: regexp.MustCompile(`.{6,}`)},
	{Name: "number-check", Label: "Contains a number", pattern: regexp.MustCompile(`\d`)},
	{Name: "special-check", Label: "Contains a special character", pattern: regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)},
}

// Checklist maps each rule name to whether password satisfies it.
type Checklist map[string]bool

// Complete reports whether every rule passed.
func (c Checklist) Complete() bool {
	for _, rule := range PasswordRules {
		if !c[rule.Name] {
			return false
		}
	}
	return true
}

// CheckPassword evaluates all PasswordRules.
func CheckPassword(password string) Checklist {
	result := make(Checklist, len(PasswordRules))
	for _, rule := range PasswordRules {
		result[rule.Name] = rule.Satisfied(password)
	}
	return result
}
