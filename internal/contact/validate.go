package contact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits, counted in characters after trimming.
const (
	NameMinLen    = 2
	NameMaxLen    = 50
	EmailMaxLen   = 100
	SubjectMinLen = 5
	SubjectMaxLen = 100
	MessageMinLen = 10
	MessageMaxLen = 1000
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[A-Za-z]{2,3}$`)
)

// Result is the outcome of one validation pass.
type Result struct {
	Errors FieldErrors
	Valid  bool
}

// Validate checks every field of in and reports all failures at once. It has
// no side effects and yields the same Result for the same Input.
func Validate(in Input) Result {
	errs := FieldErrors{
		Name:    validateName(strings.TrimSpace(in.Name)),
		Email:   validateEmail(strings.TrimSpace(in.Email)),
		Subject: validateLength("Subject", strings.TrimSpace(in.Subject), SubjectMinLen, SubjectMaxLen),
		Message: validateLength("Message", strings.TrimSpace(in.Message), MessageMinLen, MessageMaxLen),
	}
	return Result{Errors: errs, Valid: !errs.Any()}
}

// ValidateField runs the rule for a single field.
func ValidateField(in Input, field Field) string {
	return Validate(in).Errors.Get(field)
}

func validateName(v string) string {
	if msg := validateLength("Name", v, NameMinLen, NameMaxLen); msg != "" {
		return msg
	}
	if !namePattern.MatchString(v) {
		return "Name can only contain letters and spaces"
	}
	return ""
}

func validateEmail(v string) string {
	if v == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(v) {
		return "Please enter a valid email address"
	}
	if utf8.RuneCountInString(v) > EmailMaxLen {
		return fmt.Sprintf("Email must be less than %d characters", EmailMaxLen)
	}
	return ""
}

func validateLength(label, v string, min, max int) string {
	if v == "" {
		return label + " is required"
	}
	n := utf8.RuneCountInString(v)
	if n < min {
		return fmt.Sprintf("%s must be at least %d characters", label, min)
	}
	if n > max {
		return fmt.Sprintf("%s must be less than %d characters", label, max)
	}
	return ""
}
