package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("permission denied")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("token invalid or expired")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid or revoked")
	ErrRiderNotFound       = errors.New("rider profile not found")
	ErrPhoneRegistered     = errors.New("phone number already registered")
	ErrInvalidTransition   = errors.New("only pending applications can be reviewed")

	ErrEventNotOpen  = errors.New("event is not open for registration")
	ErrEventFull     = errors.New("event is full")
	ErrAlreadyJoined = errors.New("already joined this event")
	ErrNotJoined     = errors.New("not joined this event")

	ErrUsageLimitReached  = errors.New("usage limit reached for this benefit")
	ErrBenefitExpired     = errors.New("benefit has expired")
	ErrBenefitNotYetValid = errors.New("benefit is not yet valid")
	ErrBenefitInactive    = errors.New("benefit is not active")
)

// ValidationError reports bad input. Fields maps field names to problems
// when the failure is tied to specific fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// fieldErrors collects per-field problems while validating a request.
type fieldErrors map[string]string

func (f fieldErrors) add(field, problem string) {
	if _, ok := f[field]; !ok {
		f[field] = problem
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}

// AccountCreationError wraps a failure while writing the user, rider and
// application rows of a membership intake.
type AccountCreationError struct {
	Err error
}

func (e *AccountCreationError) Error() string { return "Failed to create account: " + e.Err.Error() }

func (e *AccountCreationError) Unwrap() error { return e.Err }

// lookupErr maps a missing row to ErrNotFound and wraps anything else.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}
