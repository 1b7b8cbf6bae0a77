package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRealClock_Sleep(t *testing.T) {
	clock := realClock{}

	t.Run("zero duration returns immediately", func(t *testing.T) {
		if err := clock.Sleep(context.Background(), 0); err != nil {
			t.Errorf("Sleep(0) error: %v", err)
		}
	})

	t.Run("short sleep completes", func(t *testing.T) {
		if err := clock.Sleep(context.Background(), time.Millisecond); err != nil {
			t.Errorf("Sleep() error: %v", err)
		}
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := clock.Sleep(ctx, time.Hour)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Sleep() error = %v, want context.Canceled", err)
		}
	})
}
