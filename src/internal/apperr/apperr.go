// Package apperr defines the error taxonomy shared by every bvm command.
//
// Expected absence (no active version, no alias, no project file) is not an
// error anywhere in bvm; those cases are reported through ok/found returns.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure by how the caller should react to it
type Kind int

const (
	// KindUsage covers missing or invalid arguments
	KindUsage Kind = iota + 1
	// KindNotFound means a specifier did not resolve
	KindNotFound
	// KindConflict means the operation would break an invariant
	KindConflict
	// KindTransient covers network and timeout failures
	KindTransient
	// KindFatal covers unrecoverable failures for this invocation
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the stage that failed and Version
// the version being worked on, when known.
type Error struct {
	Kind       Kind
	Op         string
	Version    string
	Message    string
	Candidates []string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.Version != "" {
			b.WriteString(" ")
			b.WriteString(e.Version)
		}
		b.WriteString(": ")
	}
	switch {
	case e.Message != "" && e.Err != nil:
		b.WriteString(e.Message)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Usage reports invalid or missing arguments
func Usage(format string, args ...interface{}) error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that spec did not resolve; candidates lists what was available
func NotFound(spec string, candidates []string) error {
	return &Error{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("version '%s' not found", spec),
		Candidates: append([]string(nil), candidates...),
	}
}

// Conflict reports an operation refused to protect an invariant
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Transient wraps a network or timeout failure
func Transient(op string, err error) error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// Fatal wraps an unrecoverable failure
func Fatal(op string, err error) error {
	return &Error{Kind: KindFatal, Op: op, Err: err}
}

// WithContext attaches stage and version to err. Classified errors keep their
// kind; unclassified ones are wrapped with fmt.Errorf.
func WithContext(err error, op, version string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		clone := *e
		if clone.Op == "" {
			clone.Op = op
		}
		if clone.Version == "" {
			clone.Version = version
		}
		return &clone
	}
	if version != "" {
		return fmt.Errorf("%s %s: %w", op, version, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsUsage reports whether err is a usage error
func IsUsage(err error) bool { return Is(err, KindUsage) }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return Is(err, KindNotFound) }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return Is(err, KindConflict) }

// IsTransient reports whether err is a transient error
func IsTransient(err error) bool { return Is(err, KindTransient) }

// IsFatal reports whether err is a fatal error
func IsFatal(err error) bool { return Is(err, KindFatal) }

// CandidatesOf returns the candidate list attached to a not-found error
func CandidatesOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Candidates
	}
	return nil
}

// ExitCoder is implemented by errors that carry their own process exit code,
// such as a child process that exited non-zero.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode maps err to a process exit code: 0 for nil, 2 for usage errors,
// the child's code for ExitCoder errors, and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code != 0 {
			return code
		}
		return 1
	}
	if IsUsage(err) {
		return 2
	}
	return 1
}
