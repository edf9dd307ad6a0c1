package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEachVisitsEveryInput(t *testing.T) {
	var sum atomic.Int64
	err := Each(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		return nil
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if sum.Load() != 15 {
		t.Fatalf("sum = %d, want 15", sum.Load())
	}
}

func TestEachJoinsFailuresWithoutStopping(t *testing.T) {
	errOdd := errors.New("odd")
	var seen atomic.Int32
	err := Each(context.Background(), []int{1, 2, 3, 4}, 1, func(_ context.Context, n int) error {
		seen.Add(1)
		if n%2 == 1 {
			return errOdd
		}
		return nil
	})
	if !errors.Is(err, errOdd) {
		t.Fatalf("err = %v, want errOdd", err)
	}
	if seen.Load() != 4 {
		t.Fatalf("visited %d inputs, want 4", seen.Load())
	}
}

func TestEachBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	err := Each(context.Background(), make([]struct{}, 8), 3, func(context.Context, struct{}) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return nil
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if peak.Load() > 3 {
		t.Fatalf("peak concurrency = %d, want <= 3", peak.Load())
	}
}

func TestEachStopsFeedingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Each(ctx, []int{1, 2, 3}, 1, func(context.Context, int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEachEmpty(t *testing.T) {
	if err := Each(context.Background(), nil, 4, func(context.Context, int) error {
		t.Fatal("fn called for empty input")
		return nil
	}); err != nil {
		t.Fatalf("Each: %v", err)
	}
}
