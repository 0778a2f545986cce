package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// AuthenticationError is returned when the login handshake is rejected or cannot complete.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// SessionExpiredError is returned when the API no longer accepts the session token.
// A new client must be created; sessions are never refreshed.
type SessionExpiredError struct {
	Err error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *SessionExpiredError) Unwrap() error { return e.Err }

// QueryError is returned when the API rejects the request parameters or
// answers with something that cannot be read as a feed.
type QueryError struct {
	Code    int
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("query rejected (%d): %s", e.Code, e.Message)
	}
	return "query failed: " + e.Message
}

func (e *QueryError) Unwrap() error { return e.Err }

// TransportError is returned on network failures and server-side outages.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classifyError maps an error returned by the reporting service onto the error taxonomy.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &QueryError{Message: "malformed response", Err: err}
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &TransportError{Op: op, Err: err}
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized:
		return &SessionExpiredError{Err: err}
	case apiErr.Code >= http.StatusInternalServerError:
		return &TransportError{Op: op, Err: err}
	default:
		return &QueryError{Code: apiErr.Code, Message: apiErr.Message, Err: err}
	}
}
