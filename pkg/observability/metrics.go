package observability

import (
	"net/http"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Insertion outcomes
const (
	OutcomeApplied     = "applied"
	OutcomeNotFound    = "not_found"
	OutcomeMissingFile = "missing_file"
)

// Metrics holds all Prometheus metrics of protoweave passes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Pass metrics
	PassesTotal   *prometheus.CounterVec
	PhaseDuration *prometheus.HistogramVec

	// Projection metrics
	EventsTotal      *prometheus.CounterVec
	RuleApplications prometheus.Counter
	ViewRecords      *prometheus.GaugeVec

	// Render metrics
	InsertionsTotal    *prometheus.CounterVec
	RendererSkipsTotal *prometheus.CounterVec
	FilesWrittenTotal  prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		PassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoweave_passes_total",
				Help: "Total number of passes",
			},
			[]string{"status"},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "protoweave_phase_duration_seconds",
				Help:    "Pass phase duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoweave_events_total",
				Help: "Total number of AST events drained into views",
			},
			[]string{"kind"},
		),
		RuleApplications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "protoweave_rule_applications_total",
				Help: "Total number of routing rule applications",
			},
		),
		ViewRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "protoweave_view_records",
				Help: "Number of records per view after the last pass",
			},
			[]string{"view"},
		),
		InsertionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoweave_insertions_total",
				Help: "Total number of insertions by outcome",
			},
			[]string{"renderer", "outcome"},
		),
		RendererSkipsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoweave_renderer_skips_total",
				Help: "Total number of renderer runs skipped",
			},
			[]string{"renderer", "reason"},
		),
		FilesWrittenTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "protoweave_files_written_total",
				Help: "Total number of generated files written back",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.PassesTotal,
		m.PhaseDuration,
		m.EventsTotal,
		m.RuleApplications,
		m.ViewRecords,
		m.InsertionsTotal,
		m.RendererSkipsTotal,
		m.FilesWrittenTotal,
	)

	return m
}

// ObservePass counts a finished pass
func (m *Metrics) ObservePass(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.PassesTotal.WithLabelValues(status).Inc()
}

// ObservePhase records the duration of a pass phase
func (m *Metrics) ObservePhase(phase string, seconds float64) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Observe(seconds)
}

// ObserveEvents counts drained events by kind
func (m *Metrics) ObserveEvents(events []ast.Event, routed int) {
	if m == nil {
		return
	}
	for _, e := range events {
		m.EventsTotal.WithLabelValues(string(e.Kind())).Inc()
	}
	m.RuleApplications.Add(float64(routed))
}

// SetViewRecords records the size of a view
func (m *Metrics) SetViewRecords(view string, records int) {
	if m == nil {
		return
	}
	m.ViewRecords.WithLabelValues(view).Set(float64(records))
}

// ObserveInsertions counts the insertion outcomes of one renderer run
func (m *Metrics) ObserveInsertions(renderer string, delta render.Stats) {
	if m == nil {
		return
	}
	m.InsertionsTotal.WithLabelValues(renderer, OutcomeApplied).Add(float64(delta.Applied))
	m.InsertionsTotal.WithLabelValues(renderer, OutcomeNotFound).Add(float64(delta.NotFound))
	m.InsertionsTotal.WithLabelValues(renderer, OutcomeMissingFile).Add(float64(delta.MissingFile))
}

// ObserveSkip counts a renderer run skipped for the given reason
func (m *Metrics) ObserveSkip(renderer, reason string) {
	if m == nil {
		return
	}
	m.RendererSkipsTotal.WithLabelValues(renderer, reason).Inc()
}

// ObserveWritten counts files written back to disk
func (m *Metrics) ObserveWritten(files int) {
	if m == nil {
		return
	}
	m.FilesWrittenTotal.Add(float64(files))
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
