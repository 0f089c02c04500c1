package interrupt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// testCause is a minimal Cause implementation for this package's tests.
type testCause struct {
	kind, summary string
}

func (c testCause) Kind() string    { return c.kind }
func (c testCause) Summary() string { return c.summary }
func (c testCause) Print(sink LogSink) {
	sink.WriteLine(c.summary)
}

// bufferSink collects written lines.
type bufferSink struct {
	lines []string
}

func (s *bufferSink) WriteLine(line string) {
	s.lines = append(s.lines, line)
}

func TestNewWithoutCauses(t *testing.T) {
	sig := New(types.StatusAborted)

	assert.Equal(t, types.StatusAborted, sig.Status())
	assert.Empty(t, sig.Causes())
	assert.Nil(t, sig.Unwrap())
	assert.Empty(t, sig.Suppressed())
	assert.Equal(t, "run interrupted (ABORTED)", sig.Error())
}

func TestCausesPreserveOrder(t *testing.T) {
	a := testCause{"a", "first"}
	b := testCause{"b", "second"}
	c := testCause{"c", "third"}

	sig := New(types.StatusAborted, a, b, c)

	got := sig.Causes()
	require.Len(t, got, 3)
	assert.Equal(t, []Cause{a, b, c}, got)
}

func TestCausesDefensiveCopy(t *testing.T) {
	a := testCause{"a", "first"}
	b := testCause{"b", "second"}
	in := []Cause{a, b}

	sig := New(types.StatusFailure, in...)
	in[0] = testCause{"x", "mutated"}

	first := sig.Causes()
	first[1] = testCause{"y", "also mutated"}
	second := sig.Causes()

	assert.Equal(t, []Cause{a, b}, second)
	assert.Equal(t, sig.Causes(), second)
}

func TestErrorMessageIncludesFirstCause(t *testing.T) {
	sig := New(types.StatusAborted, testCause{"user", "aborted by alice"})
	assert.Equal(t, "run interrupted (ABORTED): aborted by alice", sig.Error())
}

func TestWrapCarriesUnderlying(t *testing.T) {
	underlying := errors.New("disk full")
	sig := Wrap(types.StatusFailure, underlying)

	assert.Equal(t, underlying, sig.Unwrap())
	assert.True(t, errors.Is(sig, underlying))
}

func TestErrorsAsRecoversSignal(t *testing.T) {
	sig := New(types.StatusAborted, testCause{"user", "aborted"})
	wrapped := fmt.Errorf("step boundary: %w", sig)

	var got *Signal
	require.True(t, errors.As(wrapped, &got))
	assert.Same(t, sig, got)
}

func TestWithSuppressedCopies(t *testing.T) {
	e1 := errors.New("e1")
	e2 := errors.New("e2")

	orig := New(types.StatusAborted, testCause{"user", "aborted"})
	withOne := orig.WithSuppressed(e1)
	withTwo := withOne.WithSuppressed(e2)

	assert.Empty(t, orig.Suppressed())
	assert.Equal(t, []error{e1}, withOne.Suppressed())
	assert.Equal(t, []error{e1, e2}, withTwo.Suppressed())

	// copies share status and causes
	assert.Equal(t, orig.Status(), withTwo.Status())
	assert.Equal(t, orig.Causes(), withTwo.Causes())
}

func TestIdentity(t *testing.T) {
	c := testCause{"timeout", "timed out after 5m"}
	id := Identity(c)

	assert.Equal(t, types.RecordedCause{Kind: "timeout", Summary: "timed out after 5m"}, id)
}
