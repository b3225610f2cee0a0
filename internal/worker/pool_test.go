package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}
	results := Map(context.Background(), 3, items, func(ctx context.Context, n int) (int, error) {
		return n * 10, nil
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
		if r.Value != items[i]*10 {
			t.Errorf("result %d = %d, want %d", i, r.Value, items[i]*10)
		}
	}
}

func TestMapFailuresDoNotAbort(t *testing.T) {
	errBoom := errors.New("boom")
	items := []int{0, 1, 2, 3, 4}
	results := Map(context.Background(), 2, items, func(ctx context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, fmt.Errorf("item %d: %w", n, errBoom)
		}
		return n, nil
	})

	ok := Successes(results)
	if len(ok) != 3 {
		t.Errorf("got %d successes, want 3", len(ok))
	}
	for i, r := range results {
		if i%2 == 1 && !errors.Is(r.Err, errBoom) {
			t.Errorf("result %d: expected wrapped boom, got %v", i, r.Err)
		}
	}
}

func TestMapCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 100)
	results := Map(ctx, 2, items, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	var cancelled int
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("expected undispatched items to carry the context error")
	}
}

func TestMapEmptyInput(t *testing.T) {
	results := Map(context.Background(), 4, nil, func(ctx context.Context, n int) (int, error) {
		t.Error("fn called for empty input")
		return 0, nil
	})
	if results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestSuccessesPreservesOrder(t *testing.T) {
	results := []Result[string]{
		{Index: 0, Value: "a"},
		{Index: 1, Err: errors.New("x")},
		{Index: 2, Value: "c"},
	}
	got := Successes(results)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Successes() = %v, want [a c]", got)
	}
}
