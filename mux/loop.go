package mux

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Loop serializes all access to a Mux onto one goroutine.
//
// The Mux itself holds shared mutable state with no locking; the daemon has
// event-driven mutations, control requests arriving on API connections and a
// keep-alive timer, all on different goroutines. Rather than letting the
// timer read the report table concurrently, every piece of work is posted as
// a task consumed by Run, so the keep-alive retransmission executes on the
// same context as the presses it interleaves with.
// ErrLoopStopped is returned by Do once Run has exited.
var ErrLoopStopped = errors.New("mux loop stopped")

type Loop struct {
	mux     *Mux
	log     *slog.Logger
	tasks   chan task
	stopped chan struct{}
}

type task struct {
	fn   func(*Mux) error
	done chan error
}

// NewLoop wraps m. Run must be started before Do is called.
func NewLoop(m *Mux, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		mux:     m,
		log:     logger,
		tasks:   make(chan task),
		stopped: make(chan struct{}),
	}
}

// Run owns the Mux until ctx is cancelled, executing posted tasks and firing
// the keep-alive retransmission at the configured interval. Keep-alive
// failures are logged, not fatal: a disconnected transport recovers on a
// later tick.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	ticker := time.NewTicker(l.mux.Config().KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.tasks:
			t.done <- t.fn(l.mux)
		case <-ticker.C:
			if err := l.mux.RetransmitAll(); err != nil {
				l.log.Debug("keep-alive retransmission failed", "error", err)
			}
		}
	}
}

// Do executes fn against the Mux on the Run goroutine and returns its error.
// Blocks until the task ran or ctx is cancelled.
func (l *Loop) Do(ctx context.Context, fn func(*Mux) error) error {
	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	case l.tasks <- t:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-t.done:
		return err
	}
}

// SetActive toggles activation on the Run goroutine. On activation the
// remaining announce batches are scheduled at the configured delay, each
// posted back as a task so no batch ever runs off the timer goroutine.
func (l *Loop) SetActive(ctx context.Context, active bool) error {
	if err := l.Do(ctx, func(m *Mux) error { return m.SetActive(active) }); err != nil {
		return err
	}
	if active {
		l.scheduleAnnounceRepeats()
	}
	return nil
}

// Announce sends the full burst: one immediate batch plus the configured
// repeats. Used at daemon startup in always-on mode, where SetActive never
// transitions.
func (l *Loop) Announce(ctx context.Context) error {
	if err := l.Do(ctx, (*Mux).Announce); err != nil {
		return err
	}
	l.scheduleAnnounceRepeats()
	return nil
}

func (l *Loop) scheduleAnnounceRepeats() {
	cfg := l.mux.Config()
	for i := 1; i < cfg.AnnounceRepeat; i++ {
		time.AfterFunc(time.Duration(i)*cfg.AnnounceDelay, func() {
			if err := l.Do(context.Background(), (*Mux).Announce); err != nil {
				l.log.Debug("announce batch failed", "error", err)
			}
		})
	}
}
