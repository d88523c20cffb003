package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type blocker struct {
	stop     chan struct{}
	shutdown atomic.Int32
}

func newBlocker() *blocker { return &blocker{stop: make(chan struct{})} }

func (b *blocker) Run() error {
	<-b.stop
	return nil
}

func (b *blocker) Shutdown(context.Context) error {
	if b.shutdown.Add(1) == 1 {
		close(b.stop)
	}
	return nil
}

func TestRunContextCancel(t *testing.T) {
	b := newBlocker()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWith(b).RunContext(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("app did not stop")
	}
	if b.shutdown.Load() != 1 {
		t.Fatalf("shutdown called %d times", b.shutdown.Load())
	}
}

func TestRunComponentError(t *testing.T) {
	boom := errors.New("boom")
	b := newBlocker()
	failing := Func{RunFn: func() error { return boom }}
	err := NewWith(b, failing).WithShutdownTimeout(time.Second).RunContext(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if b.shutdown.Load() != 1 {
		t.Fatalf("other components must be shut down")
	}
}
