package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Janitor 定期呼叫 Store.Sweep；實作 app.Component。
type Janitor struct {
	store *Store
	every time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewJanitor every<=0 時每 10 分鐘一次。
func NewJanitor(st *Store, every time.Duration) *Janitor {
	if every <= 0 {
		every = 10 * time.Minute
	}
	return &Janitor{store: st, every: every, stop: make(chan struct{})}
}

func (j *Janitor) Run() error {
	t := time.NewTicker(j.every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			n := j.store.Sweep()
			j.store.log.Debug("session.sweep", slog.Int("alive", n))
		case <-j.stop:
			return nil
		}
	}
}

func (j *Janitor) Shutdown(context.Context) error {
	j.once.Do(func() { close(j.stop) })
	return nil
}
