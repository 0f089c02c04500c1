package sink

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleSink writes run log lines to a writer, stdout by default.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a console log sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{out: os.Stdout}
}

// NewWriterSink creates a log sink over an arbitrary writer.
func NewWriterSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{out: w}
}

// WriteLine appends one line to the output.
func (s *ConsoleSink) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, line)
}
