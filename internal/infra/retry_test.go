package infra_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"smart-home/internal/infra"
)

func fastRetry() infra.RetryConfig {
	return infra.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_EventuallySucceeds(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		return errors.New("down")
	})

	if err == nil || err.Error() != "down" {
		t.Errorf("error: got %v, want down", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestWithRetry_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("unauthorized")
	calls := 0
	err := infra.WithRetry(context.Background(), fastRetry(), func() error {
		calls++
		return infra.Permanent(sentinel)
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("error: got %v, want sentinel", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := infra.WithRetry(ctx, fastRetry(), func() error {
		return context.Canceled
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		if got := infra.IsRetryableHTTPStatus(tt.code); got != tt.want {
			t.Errorf("IsRetryableHTTPStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
