package application

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks malformed construction input: a corrupt catalog or
// programmer error, not a recoverable business-rule violation.
var ErrInvalidArgument = errors.New("invalid argument")

// ViolationKind classifies a business-rule violation so callers can branch on
// the kind rather than on message text.
type ViolationKind string

const (
	KindInvalidState    ViolationKind = "invalid_state"
	KindAlreadyTerminal ViolationKind = "already_terminal"
	KindUnknownState    ViolationKind = "unknown_state"
)

// Violation is a single business-rule failure. Lifecycle validation collects
// violations instead of failing fast so a caller can report every problem in
// one response.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	if v.Field != "" {
		return fmt.Sprintf("%s (%s): %s", v.Kind, v.Field, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

func violation(kind ViolationKind, field, message string) Violation {
	return Violation{Kind: kind, Field: field, Message: message}
}
