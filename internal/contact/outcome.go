package contact

import "fmt"

// OutcomeKind tags the variant of an Outcome.
type OutcomeKind string

const (
	KindSuccess            OutcomeKind = "success"
	KindValidationRejected OutcomeKind = "validation_rejected"
	KindRateLimited        OutcomeKind = "rate_limited"
	KindBadRequest         OutcomeKind = "bad_request"
	KindServerError        OutcomeKind = "server_error"
	KindNetworkError       OutcomeKind = "network_error"
	KindTimeout            OutcomeKind = "timeout"
	KindUnknownError       OutcomeKind = "unknown_error"
)

// Banner text shown to the visitor for each failure category.
const (
	DefaultSuccessMessage   = "Message sent successfully!"
	InvalidFormMessage      = "Please fix the errors above and try again."
	ValidationFailedMessage = "Please check the highlighted fields and try again."
	RateLimitedMessage      = "Too many messages sent. Please wait a few minutes before trying again."
	BadRequestMessage       = "Invalid request. Please check your input and try again."
	ServerErrorMessage      = "Server error. Please try again later or contact me directly."
	NetworkErrorMessage     = "Unable to reach the server. Please check your internet connection and try again."
	TimeoutMessage          = "The request timed out. Please try again."
	UnknownErrorMessage     = "Something went wrong while sending your message. Please try again."
)

// Outcome is the result of exactly one submission attempt. The set of
// implementations is closed to this package.
type Outcome interface {
	Kind() OutcomeKind
	// Banner is the human readable text shown to the visitor.
	Banner() string
	outcome()
}

// Success means the server accepted the message.
type Success struct {
	Message string
}

// ValidationRejected carries field errors reported by the server (HTTP 422).
type ValidationRejected struct {
	Fields  FieldErrors
	Message string
}

// RateLimited means the server refused the message with HTTP 429.
type RateLimited struct{}

// BadRequest means the server refused the message with HTTP 400.
type BadRequest struct {
	Message string
}

// ServerError means the server failed with HTTP 500. Server detail is not surfaced.
type ServerError struct{}

// NetworkError means no response was received.
type NetworkError struct{}

// Timeout means the request exceeded the client timeout.
type Timeout struct{}

// UnknownError covers every other failure, including a 2xx reply whose
// success flag is false and unexpected status codes.
type UnknownError struct {
	Message string
}

func (Success) Kind() OutcomeKind            { return KindSuccess }
func (ValidationRejected) Kind() OutcomeKind { return KindValidationRejected }
func (RateLimited) Kind() OutcomeKind        { return KindRateLimited }
func (BadRequest) Kind() OutcomeKind         { return KindBadRequest }
func (ServerError) Kind() OutcomeKind        { return KindServerError }
func (NetworkError) Kind() OutcomeKind       { return KindNetworkError }
func (Timeout) Kind() OutcomeKind            { return KindTimeout }
func (UnknownError) Kind() OutcomeKind       { return KindUnknownError }

func (o Success) Banner() string { return orDefault(o.Message, DefaultSuccessMessage) }

func (o ValidationRejected) Banner() string {
	return orDefault(o.Message, ValidationFailedMessage)
}

func (RateLimited) Banner() string { return RateLimitedMessage }

func (o BadRequest) Banner() string { return orDefault(o.Message, BadRequestMessage) }

func (ServerError) Banner() string  { return ServerErrorMessage }
func (NetworkError) Banner() string { return NetworkErrorMessage }
func (Timeout) Banner() string      { return TimeoutMessage }

func (o UnknownError) Banner() string { return orDefault(o.Message, UnknownErrorMessage) }

func (Success) outcome()            {}
func (ValidationRejected) outcome() {}
func (RateLimited) outcome()        {}
func (BadRequest) outcome()         {}
func (ServerError) outcome()        {}
func (NetworkError) outcome()       {}
func (Timeout) outcome()            {}
func (UnknownError) outcome()       {}

// IsSuccess reports whether o is a Success.
func IsSuccess(o Outcome) bool {
	_, ok := o.(Success)
	return ok
}

// UnexpectedStatus builds the UnknownError used for status codes without a
// dedicated category.
func UnexpectedStatus(status int, serverMessage string) UnknownError {
	msg := fmt.Sprintf("Server error (%d). Please try again later.", status)
	if serverMessage != "" {
		msg = fmt.Sprintf("Server error (%d). %s", status, serverMessage)
	}
	return UnknownError{Message: msg}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
