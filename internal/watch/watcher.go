package watch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"resume-client/internal/api"
)

// ErrExhausted is returned when MaxAttempts fetches all saw the pending
// sentinel.
var ErrExhausted = errors.New("analysis still pending after maximum attempts")

// State is the watcher's view of one watched resume.
type State int

const (
	// Loading means the first fetch has not completed.
	Loading State = iota
	// Pending means the resource was fetched and analysis is still running.
	Pending
	// Ready means the status field holds a terminal value.
	Ready
	// Failed means the watch ended without a terminal value.
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc re-fetches the watched resume.
type FetchFunc func(ctx context.Context) (api.Resume, error)

// Update is delivered to the observer on every state change or poll tick.
type Update struct {
	State   State
	Resume  api.Resume
	Attempt int
	Err     error
}

// Options tunes the poll loop. The zero value reproduces the product's
// documented behavior: a fixed 5 s interval with no attempt cap, polling
// until the sentinel clears or the context is canceled.
type Options struct {
	// Interval between re-fetches while pending. Defaults to 5 s.
	Interval time.Duration
	// Backoff multiplies the interval after each pending fetch when > 1.
	Backoff float64
	// MaxInterval caps a growing interval. Defaults to 60 s when backoff
	// is enabled.
	MaxInterval time.Duration
	// MaxAttempts ends the watch with ErrExhausted after this many pending
	// fetches. 0 means unlimited.
	MaxAttempts int
}

// Watcher polls a resume until its analysis status leaves the pending
// sentinel. The loop is strictly sequential (fetch, wait, fetch), so at most
// one fetch is ever in flight and ticks cannot overlap.
type Watcher struct {
	Fetch    FetchFunc
	Opts     Options
	OnUpdate func(Update)

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Watcher around a fetch function.
func New(fetch FetchFunc, opts Options) *Watcher {
	return &Watcher{Fetch: fetch, Opts: opts, sleep: sleepCtx}
}

// Run drives the state machine until Ready, Failed, or context cancellation.
// Cancelling the context is the view-teardown path: it stops the timer and
// aborts the in-flight fetch through the request context.
func (w *Watcher) Run(ctx context.Context) (api.Resume, error) {
	interval := w.Opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxInterval := w.Opts.MaxInterval
	if maxInterval <= 0 {
		maxInterval = 60 * time.Second
	}
	sleep := w.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	w.emit(Update{State: Loading})

	attempt := 0
	for {
		resume, err := w.Fetch(ctx)
		attempt++

		switch {
		case err != nil && attempt == 1:
			// Initial fetch failure is terminal; there is nothing to poll.
			w.emit(Update{State: Failed, Attempt: attempt, Err: err})
			return api.Resume{}, err
		case err != nil:
			if ctx.Err() != nil {
				w.emit(Update{State: Failed, Attempt: attempt, Err: ctx.Err()})
				return api.Resume{}, ctx.Err()
			}
			// A transient failure mid-poll keeps the watch pending.
			log.Debug().Err(err).Int("attempt", attempt).Msg("poll fetch failed")
			w.emit(Update{State: Pending, Attempt: attempt, Err: err})
		case !resume.Analyzing():
			w.emit(Update{State: Ready, Resume: resume, Attempt: attempt})
			return resume, nil
		default:
			w.emit(Update{State: Pending, Resume: resume, Attempt: attempt})
		}

		if w.Opts.MaxAttempts > 0 && attempt >= w.Opts.MaxAttempts {
			w.emit(Update{State: Failed, Attempt: attempt, Err: ErrExhausted})
			return api.Resume{}, ErrExhausted
		}

		if err := sleep(ctx, interval); err != nil {
			w.emit(Update{State: Failed, Attempt: attempt, Err: err})
			return api.Resume{}, err
		}

		if w.Opts.Backoff > 1 {
			interval = time.Duration(float64(interval) * w.Opts.Backoff)
			if interval > maxInterval {
				interval = maxInterval
			}
		}
	}
}

func (w *Watcher) emit(u Update) {
	if w.OnUpdate != nil {
		w.OnUpdate(u)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
