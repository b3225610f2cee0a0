package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0, 0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("disabled limiter blocked for %v", elapsed)
	}
}

func TestLimiterNilSafe(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter Wait() error: %v", err)
	}
}

func TestLimiterRespectsContext(t *testing.T) {
	// Rate of one per hour with burst 1: the second Wait must block, so a
	// cancelled context has to surface
	l := NewLimiter(1.0/3600, 1)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected context error from blocked Wait()")
	}
}
