package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrChecklistNotFound = errors.New("checklist not found")
	ErrItemNotFound      = errors.New("checklist item not found")
)

var (
	ErrInvalidKind      = errors.New("invalid checklist type")
	ErrValidation       = errors.New("validation error")
	ErrAlreadySubmitted = errors.New("checklist already submitted")
	ErrForbidden        = errors.New("admin access required")
	ErrIncomplete       = errors.New("all required items must be completed before submission")
	ErrNoEventData      = errors.New("event data unavailable")
)

// IncompleteError lists the required items still open when a submission is
// rejected.  errors.Is(err, ErrIncomplete) holds for it.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncomplete.Error(), strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }
