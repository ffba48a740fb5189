// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout scheduling, pipeline execution, cache
// operations, and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages never
// import an observability backend. The Prometheus implementation lives in
// internal/metrics.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSchedulerHooks(metrics.SchedulerHooks{})
//	    observability.SetCacheHooks(metrics.CacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Scheduler().OnBatchStart(ctx, nodes, passes)
//	// ... run the solver ...
//	observability.Scheduler().OnBatchComplete(ctx, nodes, passes, maxDisplacement, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scheduler Hooks
// =============================================================================

// SchedulerHooks receives events from the background layout scheduler.
// They are called from both the presentation goroutine and the compute
// goroutine and must be safe for concurrent use.
type SchedulerHooks interface {
	// Batch events, on the compute goroutine
	OnBatchStart(ctx context.Context, nodes, passes int)
	OnBatchComplete(ctx context.Context, nodes, passes int, maxDisplacement float64, duration time.Duration)

	// OnPublish records a frame becoming the latest published frame.
	OnPublish(ctx context.Context, seq, epoch uint64)

	// OnDrop records a tick skipped because a batch was still in flight.
	OnDrop(ctx context.Context)

	// OnDiscard records a finished batch that was not published.
	// reason is "stale_epoch", "out_of_order" or "closed".
	OnDiscard(ctx context.Context, reason string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the batch layout pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount, passes int)
	OnLayoutComplete(ctx context.Context, nodeCount, passes int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the snapshot server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSchedulerHooks is a no-op implementation of SchedulerHooks.
type NoopSchedulerHooks struct{}

func (NoopSchedulerHooks) OnBatchStart(context.Context, int, int) {}
func (NoopSchedulerHooks) OnBatchComplete(context.Context, int, int, float64, time.Duration) {
}
func (NoopSchedulerHooks) OnPublish(context.Context, uint64, uint64) {}
func (NoopSchedulerHooks) OnDrop(context.Context)                    {}
func (NoopSchedulerHooks) OnDiscard(context.Context, string)         {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	schedulerHooks SchedulerHooks = NoopSchedulerHooks{}
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetSchedulerHooks registers custom scheduler hooks.
// This should be called once at application startup before any scheduler is created.
func SetSchedulerHooks(h SchedulerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		schedulerHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scheduler returns the registered scheduler hooks.
func Scheduler() SchedulerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return schedulerHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	schedulerHooks = NoopSchedulerHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
