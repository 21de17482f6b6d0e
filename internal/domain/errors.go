package domain

import (
	"errors"
	"strings"
)

// ErrorKind classifies failures raised by the core.
type ErrorKind int

const (
	// KindInternal is the zero value; errors that are not *Error are treated the same way.
	KindInternal ErrorKind = iota
	KindNotFound
	KindBadRequest
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindBadRequest:
		return "BadRequest"
	case KindValidation:
		return "Validation"
	default:
		return "Internal"
	}
}

// Error is the single error type raised by the domain and use case layers.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same kind and message, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Messages surfaced to API callers.
const (
	MsgAccountNotFound = "Conta não encontrada"
	MsgImportFailed    = "Erro ao importar CSV"
)

var (
	ErrAccountNotFound = &Error{Kind: KindNotFound, Message: MsgAccountNotFound}
	ErrImportFailed    = &Error{Kind: KindBadRequest, Message: MsgImportFailed}
)

// NewImportError wraps a parse or read failure of an import file.
func NewImportError(cause error) error {
	return &Error{Kind: KindBadRequest, Message: MsgImportFailed, Cause: cause}
}

// NewValidationError builds a validation failure with a single message.
func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewValidationErrors joins field messages as "[ a ; b ]".
func NewValidationErrors(msgs []string) error {
	return &Error{Kind: KindValidation, Message: "[ " + strings.Join(msgs, " ; ") + " ]"}
}

// KindOf returns the kind of err, or KindInternal if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
