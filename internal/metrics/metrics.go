// Package metrics provides Prometheus metrics for pdfmark. Values are
// derived from domain events on the bus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/eventbus"
)

// Metrics holds all Prometheus metrics for pdfmark
type Metrics struct {
	registry *prometheus.Registry

	DocumentsOpenedTotal prometheus.Counter
	DocumentPages        prometheus.Gauge

	MarkupsCommittedTotal *prometheus.CounterVec
	SelectionsDiscarded   *prometheus.CounterVec
	MarkupsRemovedTotal   prometheus.Counter
	StaleMarkupsTotal     prometheus.Counter

	SearchQueriesTotal prometheus.Counter
	SearchResults      prometheus.Histogram
	SearchJumpsTotal   prometheus.Counter

	SidecarOperationsTotal   *prometheus.CounterVec
	SidecarOperationDuration *prometheus.HistogramVec

	PageToolRunsTotal   *prometheus.CounterVec
	PageToolRunDuration *prometheus.HistogramVec
	ErrorsTotal         *prometheus.CounterVec
}

// NewMetrics creates all metrics on a dedicated registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.DocumentsOpenedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pdfmark_documents_opened_total",
		Help: "Total number of documents opened",
	})
	m.DocumentPages = factory.NewGauge(prometheus.GaugeOpts{
		Name: "pdfmark_document_pages",
		Help: "Page count of the open document",
	})

	m.MarkupsCommittedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfmark_markups_committed_total",
			Help: "Total number of markups committed",
		},
		[]string{"kind"},
	)
	m.SelectionsDiscarded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfmark_selections_discarded_total",
			Help: "Total number of annotate gestures that produced no markup",
		},
		[]string{"reason"},
	)
	m.MarkupsRemovedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pdfmark_markups_removed_total",
		Help: "Total number of markups removed by undo or clear",
	})
	m.StaleMarkupsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pdfmark_stale_markups_total",
		Help: "Total number of loaded markups referencing missing pages",
	})

	m.SearchQueriesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pdfmark_search_queries_total",
		Help: "Total number of search queries",
	})
	m.SearchResults = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdfmark_search_results",
		Help:    "Number of matches per search query",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})
	m.SearchJumpsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "pdfmark_search_jumps_total",
		Help: "Total number of jumps to search matches",
	})

	m.SidecarOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfmark_sidecar_operations_total",
			Help: "Total number of sidecar saves and loads",
		},
		[]string{"operation", "status"},
	)
	m.SidecarOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdfmark_sidecar_operation_duration_seconds",
			Help:    "Duration of sidecar operations in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.PageToolRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfmark_page_tool_runs_total",
			Help: "Total number of external page tool runs",
		},
		[]string{"tool", "operation", "status"},
	)
	m.PageToolRunDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdfmark_page_tool_run_duration_seconds",
			Help:    "Duration of external page tool runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)
	m.ErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfmark_errors_total",
			Help: "Total number of failed operations",
		},
		[]string{"op"},
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe updates metrics from one domain event
func (m *Metrics) Observe(e eventbus.DomainEvent) {
	switch ev := e.(type) {
	case eventbus.DocumentOpenedEvent:
		m.DocumentsOpenedTotal.Inc()
		m.DocumentPages.Set(float64(ev.PageCount))
	case eventbus.DocumentClosedEvent:
		m.DocumentPages.Set(0)
	case eventbus.MarkupCommittedEvent:
		m.MarkupsCommittedTotal.WithLabelValues(ev.Markup.Kind.String()).Inc()
	case eventbus.SelectionDiscardedEvent:
		m.SelectionsDiscarded.WithLabelValues(ev.Reason).Inc()
	case eventbus.MarkupRemovedEvent:
		m.MarkupsRemovedTotal.Add(float64(ev.Count))
	case eventbus.StalePageReferenceEvent:
		m.StaleMarkupsTotal.Add(float64(ev.Count))
	case eventbus.SearchCompletedEvent:
		m.SearchQueriesTotal.Inc()
		m.SearchResults.Observe(float64(ev.MatchCount))
	case eventbus.SearchNavigatedEvent:
		m.SearchJumpsTotal.Inc()
	case eventbus.MarkupsSavedEvent:
		m.recordSidecar("save", "ok", ev.Duration)
	case eventbus.MarkupsLoadedEvent:
		m.recordSidecar("load", "ok", ev.Duration)
	case eventbus.PageToolCompletedEvent:
		m.PageToolRunsTotal.WithLabelValues(ev.Tool, ev.Operation, status(ev.Success)).Inc()
		m.PageToolRunDuration.WithLabelValues(ev.Tool).Observe(ev.Duration.Seconds())
	case eventbus.ErrorEvent:
		m.ErrorsTotal.WithLabelValues(ev.Op).Inc()
		if ev.Op == "save" || ev.Op == "load" {
			m.SidecarOperationsTotal.WithLabelValues(ev.Op, "error").Inc()
		}
	}
}

func (m *Metrics) recordSidecar(op, st string, d time.Duration) {
	m.SidecarOperationsTotal.WithLabelValues(op, st).Inc()
	m.SidecarOperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Subscribe feeds every bus event into Observe
func (m *Metrics) Subscribe(bus eventbus.EventBus) func() {
	return bus.Subscribe(eventbus.AllEvents, m.Observe)
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
