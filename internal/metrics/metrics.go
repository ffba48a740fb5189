// Package metrics defines Prometheus metrics for forcegraph and implements
// the observability hooks on top of them.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

var (
	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_batch_duration_seconds",
			Help:    "Solver batch duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	BatchDisplacement = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_batch_max_displacement",
			Help: "Largest node displacement in the last pass of the most recent batch",
		},
	)

	BatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_batches_total",
			Help: "Total solver batches started",
		},
	)

	LayoutNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_layout_nodes",
			Help: "Node count of the most recent batch",
		},
	)

	PublishesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_publishes_total",
			Help: "Total frames published",
		},
	)

	PublishedSeq = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_published_seq",
			Help: "Sequence number of the latest published frame",
		},
	)

	DropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_ticks_dropped_total",
			Help: "Ticks skipped because a batch was in flight",
		},
	)

	DiscardsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_batches_discarded_total",
			Help: "Finished batches that were not published, by reason",
		},
		[]string{"reason"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forcegraph_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage", "status"},
	)

	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_cache_requests_total",
			Help: "Cache lookups by key type and result",
		},
		[]string{"type", "result"},
	)

	CacheWrittenBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		},
		[]string{"type"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forcegraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)
)

func init() {
	prometheus.MustRegister(
		BatchDuration, BatchDisplacement, BatchesTotal, LayoutNodes,
		PublishesTotal, PublishedSeq, DropsTotal, DiscardsTotal,
		StageDuration,
		CacheRequestsTotal, CacheWrittenBytes,
		RequestDuration, RequestsTotal, RequestsInFlight,
	)
}

// Install registers the Prometheus hooks with the observability package.
func Install() {
	observability.SetSchedulerHooks(SchedulerHooks{})
	observability.SetPipelineHooks(PipelineHooks{})
	observability.SetCacheHooks(CacheHooks{})
	observability.SetHTTPHooks(HTTPHooks{})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SchedulerHooks records scheduler events.
type SchedulerHooks struct{}

func (SchedulerHooks) OnBatchStart(_ context.Context, nodes, _ int) {
	BatchesTotal.Inc()
	LayoutNodes.Set(float64(nodes))
}

func (SchedulerHooks) OnBatchComplete(_ context.Context, _, _ int, maxDisplacement float64, d time.Duration) {
	BatchDuration.Observe(d.Seconds())
	BatchDisplacement.Set(maxDisplacement)
}

func (SchedulerHooks) OnPublish(_ context.Context, seq, _ uint64) {
	PublishesTotal.Inc()
	PublishedSeq.Set(float64(seq))
}

func (SchedulerHooks) OnDrop(context.Context) { DropsTotal.Inc() }

func (SchedulerHooks) OnDiscard(_ context.Context, reason string) {
	DiscardsTotal.WithLabelValues(reason).Inc()
}

// PipelineHooks records pipeline stage timings.
type PipelineHooks struct{}

func (PipelineHooks) OnLoadStart(context.Context, string) {}

func (PipelineHooks) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	observeStage("load", d, err)
}

func (PipelineHooks) OnLayoutStart(context.Context, int, int) {}

func (PipelineHooks) OnLayoutComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	observeStage("layout", d, err)
}

func (PipelineHooks) OnRenderStart(context.Context, []string) {}

func (PipelineHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	observeStage("render", d, err)
}

func observeStage(stage string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StageDuration.WithLabelValues(stage, status).Observe(d.Seconds())
}

// CacheHooks records cache hits, misses and writes.
type CacheHooks struct{}

func (CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTPHooks records request counts and latencies.
type HTTPHooks struct{}

func (HTTPHooks) OnRequest(context.Context, string, string) {
	RequestsInFlight.Inc()
}

func (HTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	RequestsInFlight.Dec()
	code := strconv.Itoa(status)
	RequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
	RequestsTotal.WithLabelValues(method, route, code).Inc()
}
