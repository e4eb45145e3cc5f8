package cascade

import (
	"context"
	"errors"
	"sync"
	"time"
)

type flush struct {
	Region string `json:"region"`
}

// call is one recorded peer call.
type call struct {
	address string
	method  Method
	payload any
}

// fakeTransport is a counting, instrumented Transport.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	opens   int
	closes  int
	active  int
	peak    int
	openErr error

	// respond answers a call; nil answers with a successful result.
	respond func(ctx context.Context, address string) (*Result, error)
	// delay is applied to every call before respond.
	delay time.Duration
}

func (f *fakeTransport) Open(context.Context) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opens++
	return fakeSession{f}, nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) addresses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.address
	}
	return out
}

func (f *fakeTransport) peakConcurrency() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}

type fakeSession struct {
	f *fakeTransport
}

func (s fakeSession) Call(ctx context.Context, address string, method Method, payload any) (*Result, error) {
	f := s.f
	f.mu.Lock()
	f.calls = append(f.calls, call{address: address, method: method, payload: payload})
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.respond != nil {
		return f.respond(ctx, address)
	}
	return &Result{Message: "peer ok", Success: true}, nil
}

func (s fakeSession) Close() error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.closes++
	return nil
}

var errDiskFull = errors.New("disk full")

func okAction(context.Context, flush) error { return nil }

func testConfig(hosts ...string) Config[flush] {
	cfg := DefaultConfig[flush]()
	cfg.ActionDescription = "flush cache"
	cfg.Hosts = hosts
	cfg.Path = "/cache/flush"
	cfg.Timeout = 5 * time.Second
	cfg.LocalAction = okAction
	return cfg
}
