// Package auth provides the identity layer: credential checks, account
// creation, and auth-state observation.
package auth

import (
	"context"
	"errors"
	"fmt"
)

// Code identifies a class of authentication failure. Handlers map codes to
// user-facing messages; everything else surfaces the fallback text.
type Code string

const (
	CodeInvalidCredential Code = "invalid-credential"
	CodeEmailInUse        Code = "email-already-in-use"
	CodeWeakPassword      Code = "weak-password"
	CodeTooManyRequests   Code = "too-many-requests"
	CodeUnknown           Code = "unknown"
)

// Error carries a failure code alongside the underlying cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the failure code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Message returns the user-facing text for a failure code. Unrecognized
// codes fall through to the provided fallback.
func Message(code Code, fallback string) string {
	switch code {
	case CodeInvalidCredential:
		return "Invalid email or password."
	case CodeEmailInUse:
		return "This email is already registered."
	case CodeWeakPassword:
		return "Password must be at least 6 characters."
	case CodeTooManyRequests:
		return "Too many attempts. Please try again later."
	default:
		return fallback
	}
}

// Session identifies an authenticated user.
type Session struct {
	UserID string
	Email  string
}

// UnsubscribeFunc detaches an auth-state observer. Safe to call twice.
type UnsubscribeFunc func()

// Provider is the identity backend. SignIn and SignUp return a session on
// success; failures are *Error values with a Code.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut()
	// ObserveAuthState invokes fn with the current session (nil when signed
	// out) immediately and again on every change.
	ObserveAuthState(fn func(*Session)) UnsubscribeFunc
}
