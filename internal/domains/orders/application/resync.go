package application

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// resyncer runs background refreshes. At most one runs at a time; requests made
// while one is running collapse into a single follow-up run.
type resyncer struct {
	refresh func(context.Context) error
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	pending bool
	wg      sync.WaitGroup
}

func newResyncer(refresh func(context.Context) error, timeout time.Duration, logger *slog.Logger) *resyncer {
	return &resyncer{refresh: refresh, timeout: timeout, logger: logger}
}

// schedule detaches from the caller's cancellation so a finished request does not abort the refresh.
func (r *resyncer) schedule(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.loop(context.WithoutCancel(ctx))
}

func (r *resyncer) loop(base context.Context) {
	defer r.wg.Done()
	for {
		ctx, cancel := context.WithTimeout(base, r.timeout)
		err := r.refresh(ctx)
		cancel()
		if err != nil && r.logger != nil {
			r.logger.LogAttrs(base, slog.LevelWarn, "background order resync failed", slog.String("error", err.Error()))
		}

		r.mu.Lock()
		if !r.pending {
			r.running = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
	}
}

func (r *resyncer) wait() {
	r.wg.Wait()
}
