package world

import (
	"context"
	"sync/atomic"
)

// Result reports a finished batch of steps.
type Result struct {
	Day int
	Err error
}

// Runner advances a World on its own goroutine so a viewer can keep
// drawing. Readers only ever see snapshots taken at day boundaries.
type Runner struct {
	w *World

	latest  atomic.Pointer[Snapshot]
	busy    atomic.Bool
	pending chan int
	done    chan Result

	onStep func(*Snapshot)
}

// NewRunner wraps w. The world must not be used directly afterwards.
func NewRunner(w *World) *Runner {
	r := &Runner{
		w:       w,
		pending: make(chan int, 1),
		done:    make(chan Result, 1),
	}
	r.latest.Store(w.Snapshot())
	return r
}

// OnStep registers fn to receive every published snapshot, on the runner
// goroutine. It must be called before Run.
func (r *Runner) OnStep(fn func(*Snapshot)) { r.onStep = fn }

// Latest returns the most recently published snapshot.
func (r *Runner) Latest() *Snapshot { return r.latest.Load() }

// Busy reports whether a batch is in progress.
func (r *Runner) Busy() bool { return r.busy.Load() }

// Done delivers one Result per completed batch.
func (r *Runner) Done() <-chan Result { return r.done }

// Request asks for days more steps. It returns false when a batch is
// already running.
func (r *Runner) Request(days int) bool {
	if days < 1 || !r.busy.CompareAndSwap(false, true) {
		return false
	}
	r.pending <- days
	return true
}

// Run processes requests until ctx is cancelled. A batch stops at the
// first failed step; the snapshot of the last good day stays published.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case days := <-r.pending:
			res := r.batch(ctx, days)
			r.busy.Store(false)
			select {
			case r.done <- res:
			default:
				// Nobody drained the previous result; replace it.
				select {
				case <-r.done:
				default:
				}
				r.done <- res
			}
		}
	}
}

func (r *Runner) batch(ctx context.Context, days int) Result {
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return Result{Day: r.w.Day(), Err: err}
		}
		if err := r.w.Step(); err != nil {
			return Result{Day: r.w.Day(), Err: err}
		}
		snap := r.w.Snapshot()
		r.latest.Store(snap)
		if r.onStep != nil {
			r.onStep(snap)
		}
	}
	return Result{Day: r.w.Day()}
}
