package service

import (
	"errors"
	"time"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrAccountBanned = errors.New("account banned")
	ErrDeviceBanned  = errors.New("device banned")
	ErrUsernameTaken = errors.New("username already taken")
)

// ValidationError carries the message shown to the caller. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

func nowOr(fn func() time.Time) time.Time {
	if fn != nil {
		return fn().UTC()
	}
	return time.Now().UTC()
}
