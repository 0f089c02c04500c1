package sink

import (
	"fmt"
	"os"
	"sync"
)

// FileSink appends run log lines to a file.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink creates a file log sink.
func NewFileSink(path string) (*FileSink, error) {
	// Ensure the file is writable
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	_ = f.Close()

	return &FileSink{path: path}, nil
}

// WriteLine appends one line to the file. Write errors are reported on
// stderr rather than returned; the log sink contract has no error channel.
func (s *FileSink) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[sink] opening %s: %v\n", s.path, err)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, line); err != nil {
		fmt.Fprintf(os.Stderr, "[sink] writing %s: %v\n", s.path, err)
	}
}
