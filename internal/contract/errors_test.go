package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"output exists", fmt.Errorf("blend: %w", ErrOutputExists), ExitOutputExists},
		{"input unreadable", fmt.Errorf("reference: %w", ErrInputUnreadable), ExitInputError},
		{"nothing processed", ErrNothingProcessed, ExitNothingDone},
		{"write failed", fmt.Errorf("%w: disk full", ErrWriteFailed), ExitWriteError},
		{"canceled", fmt.Errorf("compose: %w", context.Canceled), ExitGeneralFailure},
		{"unknown", errors.New("boom"), ExitGeneralFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
