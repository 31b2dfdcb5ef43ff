package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which operation produced the error
type Phase string

const (
	PhaseAssign   Phase = "assign"   // installing a payload
	PhaseCast     Phase = "cast"     // typed extraction
	PhaseAccess   Phase = "access"   // type/pointer queries
	PhaseCopy     Phase = "copy"     // box to box copies
	PhaseRegistry Phase = "registry" // metadata registration and lookup
	PhaseInvoke   Phase = "invoke"   // field and method access by metadata
	PhaseConfig   Phase = "config"   // tool configuration
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch Kind = "type_mismatch"
	KindEmptyAccess  Kind = "empty_access"
	KindAllocation   Kind = "allocation"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindArity        Kind = "arity"
	KindUnsupported  Kind = "unsupported"
	KindDuplicate    Kind = "duplicate"
	KindCallFailed   Kind = "call_failed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Stored    string
	Requested string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Stored != "" || e.Requested != "" {
		b.WriteString(": ")
		if e.Stored != "" && e.Requested != "" {
			b.WriteString("stored ")
			b.WriteString(e.Stored)
			b.WriteString(", requested ")
			b.WriteString(e.Requested)
		} else if e.Stored != "" {
			b.WriteString("stored ")
			b.WriteString(e.Stored)
		} else {
			b.WriteString("requested ")
			b.WriteString(e.Requested)
		}
	}

	if e.Detail != "" {
		if e.Stored != "" || e.Requested != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field or method path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Stored sets the display name of the payload type
func (b *Builder) Stored(t string) *Builder {
	b.err.Stored = t
	return b
}

// Requested sets the display name of the requested type
func (b *Builder) Requested(t string) *Builder {
	b.err.Requested = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinels for errors.Is checks. Only Phase and Kind take part in matching.
var (
	ErrCastFailed  = &Error{Phase: PhaseCast, Kind: KindTypeMismatch}
	ErrEmptyAccess = &Error{Phase: PhaseAccess, Kind: KindEmptyAccess}
)

// Convenience constructors for common error patterns

// CastFailed creates the recoverable cast-failure error
func CastFailed(stored, requested string) *Error {
	return &Error{
		Phase:     PhaseCast,
		Kind:      KindTypeMismatch,
		Stored:    stored,
		Requested: requested,
	}
}

// EmptyAccess creates the error raised when op is used on an empty box
func EmptyAccess(op string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindEmptyAccess,
		Detail: fmt.Sprintf("%s called on an empty box", op),
	}
}

// TypeMismatch creates a type mismatch error outside of the cast path
func TypeMismatch(phase Phase, path []string, stored, requested string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		Stored:    stored,
		Requested: requested,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, typeName string, size uintptr, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Stored: typeName,
		Detail: fmt.Sprintf("failed to allocate %d byte overflow block", size),
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Arity creates an argument count error
func Arity(path []string, want, got int) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindArity,
		Path:   path,
		Detail: fmt.Sprintf("expected %d argument(s), got %d", want, got),
		Value:  got,
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
