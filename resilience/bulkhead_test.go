package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// occupy holds the single slot of b until the returned func is called.
func occupy(t *testing.T, b *Bulkhead) func() {
	t.Helper()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	return func() {
		close(release)
		<-done
	}
}

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 3})

	var callCount int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&callCount, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 0})
	release := occupy(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	release := occupy(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_WaitForContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 1, MaxWait: WaitForContext})

	t.Run("acquires once the slot frees", func(t *testing.T) {
		release := occupy(t, b)
		go func() {
			time.Sleep(20 * time.Millisecond)
			release()
		}()

		start := time.Now()
		err := b.Execute(context.Background(), func() error { return nil })
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if time.Since(start) < 10*time.Millisecond {
			t.Error("expected to wait for the slot")
		}
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		release := occupy(t, b)
		defer release()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		called := false
		err := b.Execute(ctx, func() error {
			called = true
			return nil
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
		if called {
			t.Error("fn must not run without a slot")
		}
	})
}

func TestBulkhead_CanceledContextNeverRuns(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Execute(ctx, func() error {
		t.Error("fn must not run on a canceled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_Callbacks(t *testing.T) {
	var acquired, released, rejected int32
	var maxInUse int32

	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		OnAcquire: func(name string, inUse int) {
			atomic.AddInt32(&acquired, 1)
			atomic.StoreInt32(&maxInUse, int32(inUse))
		},
		OnRelease: func(name string) {
			atomic.AddInt32(&released, 1)
		},
		OnReject: func(name string, err error) {
			if !errors.Is(err, ErrBulkheadFull) {
				t.Errorf("unexpected reject error %v", err)
			}
			atomic.AddInt32(&rejected, 1)
		},
	})

	release := occupy(t, b)
	_ = b.Execute(context.Background(), func() error { return nil })
	release()

	if atomic.LoadInt32(&acquired) != 1 {
		t.Errorf("expected 1 acquire callback, got %d", acquired)
	}
	if atomic.LoadInt32(&released) != 1 {
		t.Errorf("expected 1 release callback, got %d", released)
	}
	if atomic.LoadInt32(&rejected) != 1 {
		t.Errorf("expected 1 reject callback, got %d", rejected)
	}
	if atomic.LoadInt32(&maxInUse) != 1 {
		t.Errorf("expected inUse=1 on acquire, got %d", maxInUse)
	}
}

func TestBulkhead_PeakNeverExceedsLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 2, MaxWait: WaitForContext})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func() error {
				time.Sleep(5 * time.Millisecond)
				return nil
			})
		}()
	}
	wg.Wait()

	if b.Peak() < 1 || b.Peak() > 2 {
		t.Errorf("expected peak within [1,2], got %d", b.Peak())
	}
	if b.InUse() != 0 {
		t.Errorf("expected 0 in use after completion, got %d", b.InUse())
	}
	if b.Available() != 2 {
		t.Errorf("expected 2 available, got %d", b.Available())
	}
	if b.MaxConcurrent() != 2 {
		t.Errorf("expected MaxConcurrent 2, got %d", b.MaxConcurrent())
	}
}

func TestNewBulkhead_DefaultsInvalidLimit(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("x"))
	if b.MaxConcurrent() != 10 {
		t.Errorf("expected default 10, got %d", b.MaxConcurrent())
	}
	if NewBulkhead(BulkheadConfig{MaxConcurrent: -1}).MaxConcurrent() != 10 {
		t.Error("expected non-positive limit to default to 10")
	}
}
