// Package contact holds the contact form state, its validation rules and the
// closed set of outcomes a submission can produce.
package contact

import "strings"

// Field names one input of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ParseField maps a wire field name onto a known Field.
func ParseField(name string) (Field, bool) {
	switch Field(name) {
	case FieldName, FieldEmail, FieldSubject, FieldMessage:
		return Field(name), true
	}
	return "", false
}

// Input is the raw form state as typed by the visitor. Values are kept
// untrimmed so they can be re-edited exactly as entered.
type Input struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Value returns the current value of field.
func (in Input) Value(field Field) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldEmail:
		return in.Email
	case FieldSubject:
		return in.Subject
	case FieldMessage:
		return in.Message
	}
	return ""
}

// With returns a copy of in with field set to value. Unknown fields are ignored.
func (in Input) With(field Field, value string) Input {
	switch field {
	case FieldName:
		in.Name = value
	case FieldEmail:
		in.Email = value
	case FieldSubject:
		in.Subject = value
	case FieldMessage:
		in.Message = value
	}
	return in
}

// Normalized trims every field and lower-cases the email. It is applied when
// a submission is sent, never while the visitor is editing.
func (in Input) Normalized() Input {
	return Input{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

// FieldErrors carries one message per field. An empty string means the field
// has no error.
type FieldErrors struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// Get returns the message recorded for field.
func (e FieldErrors) Get(field Field) string {
	switch field {
	case FieldName:
		return e.Name
	case FieldEmail:
		return e.Email
	case FieldSubject:
		return e.Subject
	case FieldMessage:
		return e.Message
	}
	return ""
}

// Set records msg for field. Unknown fields are dropped.
func (e *FieldErrors) Set(field Field, msg string) {
	switch field {
	case FieldName:
		e.Name = msg
	case FieldEmail:
		e.Email = msg
	case FieldSubject:
		e.Subject = msg
	case FieldMessage:
		e.Message = msg
	}
}

// Clear removes the message for field.
func (e *FieldErrors) Clear(field Field) {
	e.Set(field, "")
}

// Any reports whether at least one field carries a message.
func (e FieldErrors) Any() bool {
	return e.Name != "" || e.Email != "" || e.Subject != "" || e.Message != ""
}
