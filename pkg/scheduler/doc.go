// Package scheduler runs layout batches off the presentation goroutine and
// publishes their results atomically.
//
// The presentation loop (an ebiten Update, a bubbletea model, an HTTP
// handler, or [Scheduler.Run]) calls [Scheduler.Tick] once per frame. A tick
// never runs the solver itself. It clones the latest published snapshot and
// hands it to a background goroutine that runs a batch of solver passes and
// then publishes the result as a new [Frame]. Readers call [Scheduler.Latest]
// at any time and always see either the previous or the new frame in full.
//
// # Overlapping Ticks
//
// At most one batch is in flight. A tick that arrives while a batch is still
// running is dropped and counted; it does not queue.
//
// # Ordering
//
// Every accepted tick and every [Scheduler.Reseed] takes the next sequence
// number. A result is published only if its sequence number is newer than
// the current frame's and it belongs to the current epoch. Reseeding starts a
// new epoch, so a batch computed from the old positions is discarded instead
// of overwriting the new ones. After [Scheduler.Close] nothing is published.
//
// # Convergence
//
// With a positive Tolerance, the scheduler stops accepting ticks once a
// published batch moved no node further than Tolerance. Reseed resumes it.
//
// Example:
//
//	s, err := scheduler.New(layout.NewSnapshot(g, nil), scheduler.Options{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	go s.Run(ctx)
//	for f := range s.Updates() {
//	    draw(f.Snapshot)
//	}
package scheduler
