package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStatus_Valid(t *testing.T) {
	for _, s := range []FileStatus{StatusUploaded, StatusProcessing, StatusDone, StatusFailed} {
		assert.True(t, s.Valid(), "status %q should be valid", s)
	}
	assert.False(t, FileStatus("").Valid())
	assert.False(t, FileStatus("queued").Valid())
}

func TestFileStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from FileStatus
		to   FileStatus
		want bool
	}{
		{"uploaded to processing", StatusUploaded, StatusProcessing, true},
		{"processing to done", StatusProcessing, StatusDone, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"uploaded skips processing", StatusUploaded, StatusDone, false},
		{"uploaded straight to failed", StatusUploaded, StatusFailed, false},
		{"processing back to uploaded", StatusProcessing, StatusUploaded, false},
		{"done is terminal", StatusDone, StatusFailed, false},
		{"failed is terminal", StatusFailed, StatusProcessing, false},
		{"done re-enters uploaded", StatusDone, StatusUploaded, false},
		{"self transition", StatusProcessing, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestFileStatus_Terminal(t *testing.T) {
	assert.False(t, StatusUploaded.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
