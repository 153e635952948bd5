package sender

import (
	"encoding/json"
	"fmt"
)

// TransportErrorKind tags the variant of a TransportError.
type TransportErrorKind int

const (
	// NoResponse means the request never produced an HTTP response.
	NoResponse TransportErrorKind = iota + 1
	// StatusError means the server answered with a non-2xx status.
	StatusError
	// TimedOut means the configured timeout elapsed.
	TimedOut
	// Other covers failures that fit none of the above.
	Other
)

func (k TransportErrorKind) String() string {
	switch k {
	case NoResponse:
		return "no_response"
	case StatusError:
		return "status_error"
	case TimedOut:
		return "timed_out"
	case Other:
		return "other"
	}
	return "unknown"
}

// TransportError is the failure half of a single exchange with the contact API.
// Status and Body are set only for StatusError.
type TransportError struct {
	Kind   TransportErrorKind
	Status int
	Body   ErrorBody
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case StatusError:
		return fmt.Sprintf("contact api: status %d: %s", e.Status, e.Body.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("contact api: %s: %v", e.Kind, e.Err)
		}
		return "contact api: " + e.Kind.String()
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// SuccessBody is the payload of a 2xx reply.
type SuccessBody struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *Metadata `json:"data,omitempty"`
}

// Metadata describes the stored message on the server side. It is only logged.
type Metadata struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// ErrorBody is the payload of a non-2xx reply. Data holds the per-field
// error list on 422 responses.
type ErrorBody struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
