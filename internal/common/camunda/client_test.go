// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"write: broken pipe", true},
		{"rpc error: code = NotFound desc = job not found", false},
		{"permission denied", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRetryableZeebeError(errors.New(tt.msg)))
		})
	}
}

func TestWithRetry(t *testing.T) {
	rc := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("recovers from transient errors", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), rc, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), rc, func(context.Context) error {
			calls++
			return errors.New("permission denied")
		})
		assert.EqualError(t, err, "permission denied")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), rc, func(context.Context) error {
			calls++
			return errors.New("connection refused")
		})
		assert.Error(t, err)
		assert.Equal(t, rc.MaxRetries+1, calls)
	})
}

func TestInstrument_CallsHandler(t *testing.T) {
	called := false
	h := Instrument("generate-copy", func(worker.JobClient, entities.Job) { called = true })

	h(nil, entities.Job{})

	assert.True(t, called)
}
