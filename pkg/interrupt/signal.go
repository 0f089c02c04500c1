// Package interrupt implements the structured interruption signal raised
// from inside a running workflow to abort it cleanly, and the protocol
// that reconciles the signal's causes into the run's permanent record.
package interrupt

import (
	"fmt"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// LogSink is an append-only, line-oriented text output associated with a
// run, used for human-readable diagnostics.
type LogSink interface {
	WriteLine(line string)
}

// Cause is one structured reason for an interruption. Implementations must
// be cheap values: Kind identifies the cause type, Summary is a stable
// one-line description, and Print writes the human-readable explanation.
// Two causes are considered the same cause iff (Kind, Summary) are equal.
type Cause interface {
	Kind() string
	Summary() string
	Print(sink LogSink)
}

// Signal indicates that a run was deliberately interrupted from the inside.
// It is an error value: raise it by returning it from arbitrarily deep call
// frames, let it propagate unchanged, and recover it exactly once at the
// run-finalization boundary with errors.As. A Signal is immutable after
// construction; it carries no stack trace of its own.
type Signal struct {
	status     types.TerminalStatus
	causes     []Cause
	underlying error
	suppressed []error
}

// New creates a signal requesting the given terminal status, typically
// StatusAborted. Causes may be empty: a contentless interruption is a valid
// generic abort. The causes slice is copied and insertion order is kept.
func New(status types.TerminalStatus, causes ...Cause) *Signal {
	s := &Signal{status: status}
	if len(causes) > 0 {
		s.causes = make([]Cause, len(causes))
		copy(s.causes, causes)
	}
	return s
}

// Wrap creates a signal that carries an underlying error alongside its
// causes, analogous to a wrapped cause-by error.
func Wrap(status types.TerminalStatus, underlying error, causes ...Cause) *Signal {
	s := New(status, causes...)
	s.underlying = underlying
	return s
}

// WithSuppressed returns a copy of the signal with additional errors
// attached, for faults observed while unwinding. The receiver is not
// modified.
func (s *Signal) WithSuppressed(errs ...error) *Signal {
	cp := &Signal{
		status:     s.status,
		causes:     s.causes,
		underlying: s.underlying,
	}
	cp.suppressed = make([]error, 0, len(s.suppressed)+len(errs))
	cp.suppressed = append(cp.suppressed, s.suppressed...)
	cp.suppressed = append(cp.suppressed, errs...)
	return cp
}

// Error implements the error interface.
func (s *Signal) Error() string {
	if len(s.causes) > 0 {
		return fmt.Sprintf("run interrupted (%s): %s", s.status, s.causes[0].Summary())
	}
	return fmt.Sprintf("run interrupted (%s)", s.status)
}

// Unwrap returns the underlying error, if any.
func (s *Signal) Unwrap() error {
	return s.underlying
}

// Status returns the terminal status the signal requests for the run.
// Applying it is the caller's job; see types.WorseOf for merging against a
// status another interruption already applied.
func (s *Signal) Status() types.TerminalStatus {
	return s.status
}

// Causes returns the signal's causes in their original insertion order.
// The returned slice is a copy.
func (s *Signal) Causes() []Cause {
	if len(s.causes) == 0 {
		return nil
	}
	out := make([]Cause, len(s.causes))
	copy(out, s.causes)
	return out
}

// Suppressed returns the errors attached during unwind, in attachment order.
// The returned slice is a copy.
func (s *Signal) Suppressed() []error {
	if len(s.suppressed) == 0 {
		return nil
	}
	out := make([]error, len(s.suppressed))
	copy(out, s.suppressed)
	return out
}

// Identity returns the serializable identity of a cause.
func Identity(c Cause) types.RecordedCause {
	return types.RecordedCause{Kind: c.Kind(), Summary: c.Summary()}
}

func causeKey(c Cause) string {
	return Identity(c).Key()
}
