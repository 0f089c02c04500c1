package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorseOf(t *testing.T) {
	tests := []struct {
		a, b, want TerminalStatus
	}{
		{StatusSuccess, StatusAborted, StatusAborted},
		{StatusAborted, StatusSuccess, StatusAborted},
		{StatusFailure, StatusUnstable, StatusFailure},
		{StatusUnstable, StatusFailure, StatusFailure},
		{StatusNotBuilt, StatusFailure, StatusNotBuilt},
		{StatusAborted, StatusAborted, StatusAborted},
		{StatusSuccess, TerminalStatus(""), StatusSuccess},
		{TerminalStatus(""), StatusFailure, StatusFailure},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"/"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, WorseOf(tt.a, tt.b))
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	ladder := []TerminalStatus{StatusSuccess, StatusUnstable, StatusFailure, StatusNotBuilt, StatusAborted}
	for i := 1; i < len(ladder); i++ {
		assert.Greater(t, ladder[i].Severity(), ladder[i-1].Severity())
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, StatusAborted.IsValid())
	assert.True(t, StatusSuccess.IsValid())
	assert.False(t, TerminalStatus("EXPLODED").IsValid())
	assert.False(t, TerminalStatus("").IsValid())
}

func TestRecordedCauseKey(t *testing.T) {
	a := RecordedCause{Kind: "timeout", Summary: "timed out after 5m"}
	b := RecordedCause{Kind: "timeout", Summary: "timed out after 5m"}
	c := RecordedCause{Kind: "timeout", Summary: "timed out after 10m"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
