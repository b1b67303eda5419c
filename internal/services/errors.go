package services

import "errors"

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindNotFound
	KindDependency
)

// Error is a domain error with a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrWeakPassword       = &Error{Kind: KindValidation, Message: "password must be at least 6 characters"}
	ErrPasswordTooLong    = &Error{Kind: KindValidation, Message: "password must be at most 72 bytes"}
	ErrInvalidRole        = &Error{Kind: KindValidation, Message: "role must be member or partner"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "email already registered"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid email or password"}
	ErrWrongProvider      = &Error{Kind: KindAuthentication, Message: "this account uses a different sign-in method"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Message: "invalid or expired token"}
	ErrIdentityProvider   = &Error{Kind: KindAuthentication, Message: "identity provider authentication failed"}
	ErrMissingEmailClaim  = &Error{Kind: KindAuthentication, Message: "identity provider did not return an email"}
	ErrAccountNotFound    = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrRecordNotFound     = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrMailUnavailable    = &Error{Kind: KindDependency, Message: "password reset email could not be delivered"}
)

// KindOf returns the kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
