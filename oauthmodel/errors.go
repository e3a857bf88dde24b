package oauthmodel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the authorization code flow can surface.
type ErrorKind string

const (
	KindConfiguration          ErrorKind = "configuration_error"
	KindAuthorizationDenied    ErrorKind = "authorization_denied"
	KindMalformedCallback      ErrorKind = "malformed_callback"
	KindStateMismatch          ErrorKind = "state_mismatch"
	KindStaleSession           ErrorKind = "stale_session"
	KindNetwork                ErrorKind = "network_error"
	KindBadRequest             ErrorKind = "bad_request"
	KindAuthFailure            ErrorKind = "auth_failure"
	KindUnexpectedStatus       ErrorKind = "unexpected_status"
	KindMalformedTokenResponse ErrorKind = "malformed_token_response"
	KindMalformedResponse      ErrorKind = "malformed_response"
)

// DenialKind is the provider supplied reason carried by an AuthorizationDenied error.
type DenialKind string

const (
	DenialAccessDenied DenialKind = "access_denied"
	DenialInvalidScope DenialKind = "invalid_scope"
	DenialServerError  DenialKind = "server_error"
	DenialUnknown      DenialKind = "unknown"
)

// ClassifyDenial maps the callback's error query parameter onto a DenialKind.
func ClassifyDenial(code string) DenialKind {
	switch DenialKind(code) {
	case DenialAccessDenied, DenialInvalidScope, DenialServerError:
		return DenialKind(code)
	default:
		return DenialUnknown
	}
}

// Error is the tagged error returned by the token exchange and resource clients.
// Matching with errors.Is compares kinds (and the denial reason when the target sets one).
type Error struct {
	Kind       ErrorKind
	Denial     DenialKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	if e.Denial != "" {
		b.WriteString(" (" + string(e.Denial) + ")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Denial == "" || t.Denial == e.Denial
}

var (
	ErrConfiguration          = &Error{Kind: KindConfiguration}
	ErrAuthorizationDenied    = &Error{Kind: KindAuthorizationDenied}
	ErrMalformedCallback      = &Error{Kind: KindMalformedCallback}
	ErrStateMismatch          = &Error{Kind: KindStateMismatch}
	ErrStaleSession           = &Error{Kind: KindStaleSession}
	ErrNetwork                = &Error{Kind: KindNetwork}
	ErrBadRequest             = &Error{Kind: KindBadRequest}
	ErrAuthFailure            = &Error{Kind: KindAuthFailure}
	ErrUnexpectedStatus       = &Error{Kind: KindUnexpectedStatus}
	ErrMalformedTokenResponse = &Error{Kind: KindMalformedTokenResponse}
	ErrMalformedResponse      = &Error{Kind: KindMalformedResponse}
)

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func NewConfigurationError(missing ...string) *Error {
	return &Error{Kind: KindConfiguration, Message: "missing " + strings.Join(missing, ", ")}
}

// NewAuthorizationDenied classifies the callback's error parameter. An
// unrecognised code is kept in the message so it can still be shown.
func NewAuthorizationDenied(code, description string) *Error {
	denial := ClassifyDenial(code)
	if denial == DenialUnknown && code != "" {
		if description == "" {
			description = code
		} else {
			description = code + ": " + description
		}
	}
	return &Error{Kind: KindAuthorizationDenied, Denial: denial, Message: description}
}

func NewNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func NewBadRequest(providerMessage string) *Error {
	return &Error{Kind: KindBadRequest, StatusCode: 400, Message: providerMessage}
}

func NewAuthFailure() *Error {
	return &Error{Kind: KindAuthFailure, StatusCode: 401}
}

func NewUnexpectedStatus(statusCode int) *Error {
	return &Error{Kind: KindUnexpectedStatus, StatusCode: statusCode}
}

func NewMalformedTokenResponse(err error) *Error {
	return &Error{Kind: KindMalformedTokenResponse, Err: err}
}

func NewMalformedResponse(err error) *Error {
	return &Error{Kind: KindMalformedResponse, Err: err}
}
