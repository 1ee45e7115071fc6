package ui

import (
	"fmt"
	"io"
)

// Kind classifies a status line.
type Kind string

const (
	// KindError renders as an error message.
	KindError Kind = "error-message"
	// KindSuccess renders as a success message.
	KindSuccess Kind = "success-message"
)

// Status is a single message node whose text and class are always overwritten together.
type Status struct {
	text string
	kind Kind
}

// Set overwrites the status text and kind.
func (s *Status) Set(message string, kind Kind) {
	s.text = message
	s.kind = kind
}

// Clear blanks the status.
func (s *Status) Clear() {
	s.text = ""
	s.kind = ""
}

// Text returns the current message.
func (s *Status) Text() string { return s.text }

// Kind returns the current class.
func (s *Status) Kind() Kind { return s.kind }

// Render writes the status when it is non-empty.
func (s *Status) Render(w io.Writer) error {
	if s.text == "" {
		return nil
	}
	marker := "!"
	if s.kind == KindSuccess {
		marker = "✓"
	}
	_, err := fmt.Fprintf(w, "  %s %s\n", marker, s.text)
	return err
}

// Control is a button with a label that can be swapped while busy.
type Control struct {
	idle     string
	label    string
	disabled bool
}

// NewControl builds an enabled control with its idle label.
func NewControl(label string) *Control {
	return &Control{idle: label, label: label}
}

// Busy disables the control and shows the in-progress label.
func (c *Control) Busy(label string) {
	c.disabled = true
	c.label = label
}

// Restore re-enables the control with its idle label.
func (c *Control) Restore() {
	c.disabled = false
	c.label = c.idle
}

// Label returns the label currently shown.
func (c *Control) Label() string { return c.label }

// Disabled reports whether the control rejects activation.
func (c *Control) Disabled() bool { return c.disabled }

// Modal is a dialog that is either shown or hidden.
type Modal struct {
	visible bool
}

// Show makes the dialog visible.
func (m *Modal) Show() { m.visible = true }

// Hide hides the dialog.
func (m *Modal) Hide() { m.visible = false }

// Visible reports whether the dialog is shown.
func (m *Modal) Visible() bool { return m.visible }

// Option is one entry of a Select.
type Option struct {
	Value string
	Label string
}

// Select is a drop-down whose options are replaced wholesale.
type Select struct {
	options  []Option
	disabled bool
}

// Replace swaps the option list and the disabled flag.
func (s *Select) Replace(disabled bool, options ...Option) {
	s.options = append([]Option(nil), options...)
	s.disabled = disabled
}

// Options returns a copy of the current options.
func (s *Select) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Disabled reports whether the select accepts input.
func (s *Select) Disabled() bool { return s.disabled }

// Placeholder returns the label of the first option, which always carries an empty value.
func (s *Select) Placeholder() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[0].Label
}
