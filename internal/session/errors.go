package session

import (
	"errors"
	"net/http"

	"github.com/clinimed/agenda/pkg/client"
)

// ErrBusy is returned when an authentication operation is already in
// flight. Callers should wait for the current one to resolve.
var ErrBusy = errors.New("another authentication attempt is in progress")

// Kind classifies an authentication failure for presentation.
type Kind int

const (
	// KindUnexpected covers failures with no better classification.
	KindUnexpected Kind = iota
	// KindInvalidInput means the form input failed local validation and
	// no request was sent.
	KindInvalidInput
	// KindInvalidCredentials means the server rejected the email or password.
	KindInvalidCredentials
	// KindValidation means the server rejected the payload. Message
	// carries the server's own explanation.
	KindValidation
	// KindUnauthorized means the credential expired mid-session.
	KindUnauthorized
	// KindNetwork means the server never produced a response.
	KindNetwork
)

// Error is an authentication failure with a message fit for direct display.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// KindOf extracts the failure classification from err.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// classify maps a client error to the presentation taxonomy.
func classify(err error) *Error {
	switch {
	case client.IsStatus(err, http.StatusUnauthorized):
		return &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password", err: err}
	case client.IsStatus(err, http.StatusBadRequest),
		client.IsStatus(err, http.StatusConflict),
		client.IsStatus(err, http.StatusUnprocessableEntity):
		var httpErr *client.HTTPError
		errors.As(err, &httpErr)
		return &Error{Kind: KindValidation, Message: httpErr.Message, err: err}
	case client.IsNetwork(err):
		return &Error{Kind: KindNetwork, Message: "Cannot reach the clinic server. Check your connection.", err: err}
	default:
		return &Error{Kind: KindUnexpected, Message: "Something went wrong. Try again.", err: err}
	}
}
