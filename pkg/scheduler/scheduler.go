package scheduler

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// DefaultInterval is the presentation tick period used by [Scheduler.Run].
const DefaultInterval = 20 * time.Millisecond

// Discard reasons reported to observability hooks.
const (
	DiscardStaleEpoch = "stale_epoch"
	DiscardOutOfOrder = "out_of_order"
	DiscardClosed     = "closed"
)

// Options configures a Scheduler. Zero values select defaults.
type Options struct {
	// Params are the solver constants. Zero means layout.DefaultParams().
	Params layout.Params
	// Passes is the number of solver passes per batch (default layout.DefaultBatch).
	Passes int
	// Interval is the tick period of Run (default DefaultInterval).
	Interval time.Duration
	// Tolerance stops ticking once a batch's max displacement falls below it.
	// Zero never stops.
	Tolerance float64
	// Seed seeds the solver's random source. Zero picks a random seed.
	Seed uint64
	// Logger receives debug output. Nil uses log.Default().
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Params == (layout.Params{}) {
		o.Params = layout.DefaultParams()
	}
	if o.Passes <= 0 {
		o.Passes = layout.DefaultBatch
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Frame is a published layout.
type Frame struct {
	// Seq increases with every published frame.
	Seq uint64
	// Epoch counts reseeds.
	Epoch uint64
	// Snapshot is owned by the frame and must not be modified.
	Snapshot *layout.Snapshot
	// Stats describes the batch that produced the frame. Zero for reseeds.
	Stats layout.Stats
	// Duration is how long the batch took.
	Duration time.Duration
	// At is the publication time.
	At time.Time
}

// Counters are cumulative scheduler statistics.
type Counters struct {
	Ticks     uint64 `json:"ticks"`
	Runs      uint64 `json:"runs"`
	Drops     uint64 `json:"drops"`
	Publishes uint64 `json:"publishes"`
	Discards  uint64 `json:"discards"`
}

// Scheduler splits layout work between a presentation context and a single
// background compute context.
type Scheduler struct {
	id     string
	opts   Options
	solver *layout.Solver
	logger *log.Logger

	gate    *semaphore.Weighted
	latest  atomic.Pointer[Frame]
	updates chan *Frame
	seq     atomic.Uint64
	wg      sync.WaitGroup

	// mu orders publications against Reseed and Close. It is never held
	// while the solver runs.
	mu     sync.Mutex
	epoch  uint64
	closed bool

	converged atomic.Bool

	ticks, runs, drops, publishes, discards atomic.Uint64
}

// New creates a scheduler whose first frame is initial.
// The scheduler owns initial from then on.
func New(initial *layout.Snapshot, opts Options) (*Scheduler, error) {
	if initial == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "initial snapshot is required")
	}
	opts.setDefaults()
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Tolerance < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "tolerance must be >= 0, got %v", opts.Tolerance)
	}

	s := &Scheduler{
		id:      uuid.NewString(),
		opts:    opts,
		solver:  layout.NewSolver(opts.Params, rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))),
		logger:  opts.Logger,
		gate:    semaphore.NewWeighted(1),
		updates: make(chan *Frame, 1),
	}
	s.latest.Store(&Frame{Snapshot: initial, At: time.Now()})
	s.logger.Debug("scheduler started",
		"id", s.id,
		"nodes", initial.Len(),
		"passes", opts.Passes,
		"interval", opts.Interval)
	return s, nil
}

// ID returns a unique identifier for this scheduler instance.
func (s *Scheduler) ID() string { return s.id }

// Options returns the effective options.
func (s *Scheduler) Options() Options { return s.opts }

// Latest returns the most recently published frame. It never blocks and is
// never nil.
func (s *Scheduler) Latest() *Frame { return s.latest.Load() }

// Updates delivers published frames. The channel holds at most one frame;
// a slow reader sees only the newest. It is closed by Close.
func (s *Scheduler) Updates() <-chan *Frame { return s.updates }

// Converged reports whether the last batch moved less than Tolerance.
func (s *Scheduler) Converged() bool { return s.converged.Load() }

// Stats returns a copy of the scheduler counters.
func (s *Scheduler) Stats() Counters {
	return Counters{
		Ticks:     s.ticks.Load(),
		Runs:      s.runs.Load(),
		Drops:     s.drops.Load(),
		Publishes: s.publishes.Load(),
		Discards:  s.discards.Load(),
	}
}

// Tick starts a batch on a background goroutine unless one is already in
// flight, the scheduler has converged, or it is closed. It reports whether
// a batch was started and returns without waiting for it.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.ticks.Add(1)
	if s.converged.Load() {
		return false
	}
	if !s.gate.TryAcquire(1) {
		s.drops.Add(1)
		observability.Scheduler().OnDrop(ctx)
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.gate.Release(1)
		return false
	}
	base := s.latest.Load()
	seq := s.seq.Add(1)
	s.wg.Add(1)
	s.mu.Unlock()

	s.runs.Add(1)
	go s.run(context.WithoutCancel(ctx), base, seq)
	return true
}

func (s *Scheduler) run(ctx context.Context, base *Frame, seq uint64) {
	defer s.wg.Done()
	defer s.gate.Release(1)

	snap := base.Snapshot.Clone()
	hooks := observability.Scheduler()
	hooks.OnBatchStart(ctx, snap.Len(), s.opts.Passes)

	start := time.Now()
	stats := s.solver.Run(snap, s.opts.Passes)
	elapsed := time.Since(start)
	hooks.OnBatchComplete(ctx, snap.Len(), s.opts.Passes, stats.MaxDisplacement, elapsed)

	s.publish(ctx, &Frame{
		Seq:      seq,
		Epoch:    base.Epoch,
		Snapshot: snap,
		Stats:    stats,
		Duration: elapsed,
		At:       time.Now(),
	})
}

// publish makes f the latest frame if it is current, newer than the
// latest frame, and the scheduler is still open.
func (s *Scheduler) publish(ctx context.Context, f *Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reason string
	switch cur := s.latest.Load(); {
	case s.closed:
		reason = DiscardClosed
	case f.Epoch != s.epoch:
		reason = DiscardStaleEpoch
	case f.Seq <= cur.Seq:
		reason = DiscardOutOfOrder
	}
	if reason != "" {
		s.discards.Add(1)
		observability.Scheduler().OnDiscard(ctx, reason)
		s.logger.Debug("discarded frame", "seq", f.Seq, "epoch", f.Epoch, "reason", reason)
		return false
	}

	s.store(ctx, f)
	if s.opts.Tolerance > 0 && f.Stats.Passes > 0 && f.Stats.MaxDisplacement < s.opts.Tolerance {
		s.converged.Store(true)
		s.logger.Debug("layout converged", "seq", f.Seq, "max_displacement", f.Stats.MaxDisplacement)
	}
	return true
}

// store publishes f. The caller holds mu.
func (s *Scheduler) store(ctx context.Context, f *Frame) {
	s.latest.Store(f)
	s.publishes.Add(1)
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- f:
	default:
	}
	observability.Scheduler().OnPublish(ctx, f.Seq, f.Epoch)
}

// Reseed replaces the current positions with snap under a new epoch.
// Any batch still running on the old positions is discarded when it ends.
// The returned frame is the one stored by the reseed, even if a later batch
// has already replaced it as Latest.
func (s *Scheduler) Reseed(ctx context.Context, snap *layout.Snapshot) (*Frame, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reseed snapshot is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scheduler %s is closed", s.id)
	}
	s.epoch++
	f := &Frame{
		Seq:      s.seq.Add(1),
		Epoch:    s.epoch,
		Snapshot: snap.Clone(),
		At:       time.Now(),
	}
	s.converged.Store(false)
	s.store(ctx, f)
	s.logger.Debug("reseeded layout", "seq", f.Seq, "epoch", f.Epoch)
	return f, nil
}

// Run ticks every Interval until ctx is done or the scheduler is closed.
// It returns ctx.Err() when ctx ends and nil after Close.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.isClosed() {
				return nil
			}
			s.Tick(ctx)
		}
	}
}

func (s *Scheduler) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close retires the scheduler. A batch still running finishes but is not
// published. Close does not wait for it; call Wait for that.
// Calling Close more than once is a no-op.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.updates)
	s.logger.Debug("scheduler closed", "id", s.id, "ticks", s.ticks.Load(), "publishes", s.publishes.Load())
}

// Wait blocks until no batch is in flight.
func (s *Scheduler) Wait() { s.wg.Wait() }
