package interrupt

import (
	"errors"
	"fmt"
	"strings"
)

// AbortError is a deliberate abort whose message alone is diagnostic.
// PrintError reports it as a single line, without the error chain that
// unexpected faults get.
type AbortError struct {
	Message string
}

// NewAbort creates an AbortError with a formatted message.
func NewAbort(format string, args ...any) *AbortError {
	return &AbortError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	return e.Message
}

// PrintError writes a human-readable representation of err to the sink.
// A nil err writes nothing. An AbortError anywhere in the chain writes its
// message only; any other error writes the full unwrap chain, trimmed of
// trailing whitespace.
func PrintError(err error, sink LogSink) {
	if err == nil {
		return
	}
	var abort *AbortError
	if errors.As(err, &abort) {
		sink.WriteLine(abort.Message)
		return
	}
	sink.WriteLine(strings.TrimRight(formatChain(err), " \t\r\n"))
}

// formatChain renders err followed by each wrapped error beneath it.
func formatChain(err error) string {
	var b strings.Builder
	b.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		b.WriteString("\ncaused by: ")
		b.WriteString(cause.Error())
	}
	return b.String()
}
