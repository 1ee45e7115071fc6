// Package ui holds the presentation state that controllers project onto the screen:
// per-field error slots, status lines, controls, modals and selects. Nothing here talks
// to the network; the terminal renderer only reads it.
package ui

import (
	"fmt"
	"io"

	"wellness/portal/internal/domain/account"
)

// ErrorClass is the error-state marker applied to an invalid input.
const ErrorClass = "error-box"

// Origin records who produced a field error.
type Origin int

const (
	// OriginLocal errors come from client-side validation.
	OriginLocal Origin = iota
	// OriginServer errors relay a backend rejection or transport failure.
	OriginServer
)

type slot struct {
	message string
	origin  Origin
}

// Field is one input plus its single trailing error slot.
type Field struct {
	ID      string
	Label   string
	invalid bool
	err     *slot
}

// Form owns the fields of one form in display order. It is not safe for concurrent use;
// controllers serialise access.
type Form struct {
	fields map[string]*Field
	order  []string
	focus  string
}

// NewForm declares the fields of a form in display order. Labels default to the id.
func NewForm(ids ...string) *Form {
	f := &Form{fields: make(map[string]*Field, len(ids))}
	for _, id := range ids {
		f.field(id)
	}
	return f
}

// Label sets the human-readable label rendered for id.
func (f *Form) Label(id, label string) *Form {
	f.field(id).Label = label
	return f
}

func (f *Form) field(id string) *Field {
	if fld, ok := f.fields[id]; ok {
		return fld
	}
	fld := &Field{ID: id, Label: id}
	f.fields[id] = fld
	f.order = append(f.order, id)
	return fld
}

// SetFieldError places a client-side error in the field's slot. Setting the message already
// shown is a no-op; any other content is replaced.
func (f *Form) SetFieldError(id, message string) {
	f.set(id, message, OriginLocal)
}

// SetServerError places a backend-originated error in the field's slot.
func (f *Form) SetServerError(id, message string) {
	f.set(id, message, OriginServer)
}

func (f *Form) set(id, message string, origin Origin) {
	fld := f.field(id)
	if fld.err != nil && fld.err.message == message {
		fld.err.origin = origin
		return
	}
	fld.err = &slot{message: message, origin: origin}
}

// ClearFieldError empties the field's slot if it holds an error.
func (f *Form) ClearFieldError(id string) {
	if fld, ok := f.fields[id]; ok {
		fld.err = nil
	}
}

// ClearLocalError empties the slot only when it holds a client-side error, leaving a
// server message in place.
func (f *Form) ClearLocalError(id string) {
	if fld, ok := f.fields[id]; ok && fld.err != nil && fld.err.origin == OriginLocal {
		fld.err = nil
	}
}

// ClearServerErrors removes every backend-originated error from the form.
func (f *Form) ClearServerErrors() {
	for _, fld := range f.fields {
		if fld.err != nil && fld.err.origin == OriginServer {
			fld.err = nil
		}
	}
}

// FieldError returns the message in the field's slot.
func (f *Form) FieldError(id string) (string, bool) {
	fld, ok := f.fields[id]
	if !ok || fld.err == nil {
		return "", false
	}
	return fld.err.message, true
}

// SlotCount is the number of error nodes attached to the field: zero or one.
func (f *Form) SlotCount(id string) int {
	if _, ok := f.FieldError(id); ok {
		return 1
	}
	return 0
}

// Errors lists the current field errors in display order.
func (f *Form) Errors() []account.FieldError {
	var out []account.FieldError
	for _, id := range f.order {
		if msg, ok := f.FieldError(id); ok {
			out = append(out, account.FieldError{FieldID: id, Message: msg})
		}
	}
	return out
}

// SetInvalid toggles the error-state marker on the field's input.
func (f *Form) SetInvalid(id string, invalid bool) {
	f.field(id).invalid = invalid
}

// Invalid reports whether the field carries the error-state marker.
func (f *Form) Invalid(id string) bool {
	fld, ok := f.fields[id]
	return ok && fld.invalid
}

// Classes returns the CSS-style classes of the field's input.
func (f *Form) Classes(id string) []string {
	if f.Invalid(id) {
		return []string{ErrorClass}
	}
	return nil
}

// Focus moves input focus to id.
func (f *Form) Focus(id string) {
	f.focus = id
}

// Focused returns the field holding focus, if any.
func (f *Form) Focused() string {
	return f.focus
}

// Reset clears every slot, marker and the focus.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.err = nil
		fld.invalid = false
	}
	f.focus = ""
}

// Render writes one line per field error.
func (f *Form) Render(w io.Writer) error {
	for _, id := range f.order {
		fld := f.fields[id]
		if fld.err == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "  ! %s: %s\n", fld.Label, fld.err.message); err != nil {
			return err
		}
	}
	return nil
}
