package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrPersistenceFailed  = errors.New("persistence failed")
	ErrNotificationFailed = errors.New("notification failed")
	ErrUnknownResponse    = errors.New("unknown response")
)

// ValidationError carries the field-scoped messages that blocked an operation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// PersistenceError is a write rejected by the datastore.
type PersistenceError struct {
	Message    string
	Status     int
	StatusText string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("persistence failed: %s (status %d %s)", e.Message, e.Status, e.StatusText)
	}
	return "persistence failed: " + e.Message
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistenceFailed}
	}
	return []error{ErrPersistenceFailed, e.Err}
}

// NotificationError is a failure of one notification channel.
type NotificationError struct {
	Channel string // agency | customer | pdf
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed (%s): %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotificationFailed}
	}
	return []error{ErrNotificationFailed, e.Err}
}
