package model

import (
	"errors"
	"fmt"
)

// Error kinds shared by both HTTP services. Handlers match them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissingField     = errors.New("missing field")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidParam     = errors.New("invalid parameter")
	ErrChainCallFailure = errors.New("chain call failure")
)

// KindError carries a user-facing message together with its error kind.
type KindError struct {
	Kind    error
	Message string
	Err     error
}

func (e *KindError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *KindError) Is(target error) bool {
	return target == e.Kind
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// NewError builds a KindError with a fixed message.
func NewError(kind error, message string) error {
	return &KindError{Kind: kind, Message: message}
}

// WrapError attaches a kind to err, keeping err's text as the message.
func WrapError(kind error, err error) error {
	if err == nil {
		return nil
	}
	return &KindError{Kind: kind, Message: err.Error(), Err: err}
}

// Errorf builds a KindError with a formatted message.
func Errorf(kind error, format string, args ...interface{}) error {
	return &KindError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
