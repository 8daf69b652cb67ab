package siter

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorKind classifies members of the taxonomy. Fatal kinds abort the run
// with a nonzero exit; the CLI prints the error's message (no stack
// trace) to stderr. Warning kinds are logged and the
// offending block is discarded (replaced with empty output) so the rest
// of the page still renders.
type ErrorKind int

const (
	// ErrParse: malformed {{ }} nesting (tokenizer stage B).
	ErrParse ErrorKind = iota
	// ErrOverwrite: an attempt to overwrite a protected binding.
	ErrOverwrite
	// ErrConfig: project layout is missing a required directory or file.
	ErrConfig

	// ErrUnknownBinding: a call names a binding that was never declared.
	ErrUnknownBinding
	// ErrArity: a call's argument count falls outside the binding's
	// accepted arity set.
	ErrArity
	// ErrValue: a builtin received a syntactically valid but semantically
	// bad argument (e.g. an unparsable date).
	ErrValue
)

func (k ErrorKind) String() string {
	switch k {
	case ErrParse:
		return "parse"
	case ErrOverwrite:
		return "overwrite"
	case ErrConfig:
		return "config"
	case ErrUnknownBinding:
		return "unknown-binding"
	case ErrArity:
		return "arity"
	case ErrValue:
		return "value"
	default:
		return "unknown"
	}
}

// Fatal reports whether an error of this kind should abort the run,
// versus being logged as a warning and recovered from.
func (k ErrorKind) Fatal() bool {
	switch k {
	case ErrParse, ErrOverwrite, ErrConfig:
		return true
	default:
		return false
	}
}

// Error is siter's single error type, carrying enough location and
// classification information to print a useful diagnostic regardless of
// which pipeline stage raised it. The field set merges pongo2's two
// inconsistent shapes (error.go's flat ErrorMsg and context.go's richer
// OrigError/Sender/Template) into one. Call sites build it as a literal
// with Sender and Message set, or through Wrap, which fills Sender and
// OrigErr.
type Error struct {
	Kind     ErrorKind
	Filename string
	Line     int
	Col      int
	Sender   string
	Message  string
	OrigErr  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s", e.Kind)
	if e.Sender != "" {
		s += " in " + e.Sender
	}
	if e.Filename != "" {
		s += " " + e.Filename
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" line %d col %d", e.Line, e.Col)
	}
	s += "] "
	if e.Message != "" {
		s += e.Message
	}
	if e.OrigErr != nil {
		if e.Message != "" {
			s += ": "
		}
		s += e.OrigErr.Error()
	}
	return s
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As and to
// xerrors.Is/xerrors.As.
func (e *Error) Unwrap() error {
	return e.OrigErr
}

// Wrap builds an Error of the given kind around cause using "%w" so the
// original error remains inspectable, grounded on
// _examples/pgavlin-yomlette/parser/error.go's wrapping convention.
func Wrap(kind ErrorKind, sender string, cause error) *Error {
	return &Error{Kind: kind, Sender: sender, OrigErr: xerrors.Errorf("%w", cause)}
}

// Warning is a non-fatal diagnostic: ErrUnknownBinding, ErrArity, or
// ErrValue. The driver logs it and discards the offending block's
// output rather than aborting the run.
type Warning struct {
	Kind    ErrorKind
	Sender  string
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("[%s in %s] %s", w.Kind, w.Sender, w.Message)
}

func newWarning(kind ErrorKind, sender, format string, args ...any) *Warning {
	return &Warning{Kind: kind, Sender: sender, Message: fmt.Sprintf(format, args...)}
}
