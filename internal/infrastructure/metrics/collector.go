package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agent-daemon/internal/application/port/output"
)

var _ output.MetricsPort = (*Collector)(nil)

const namespace = "agent_daemon"

type Collector struct {
	registry *prometheus.Registry

	dispatchTotal      *prometheus.CounterVec
	automationTotal    *prometheus.CounterVec
	automationDuration *prometheus.HistogramVec
	browserLaunches    prometheus.Counter
}

// NewCollector registers the daemon's metrics on reg. Passing a fresh
// registry per collector keeps tests independent of the global one.
func NewCollector(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		dispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Dispatched instructions by response status",
			},
			[]string{"status"},
		),
		automationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "automation_runs_total",
				Help:      "Background automation runs by strategy and final state",
			},
			[]string{"strategy", "state"},
		),
		automationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "automation_duration_seconds",
				Help:      "Background automation run duration",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"strategy"},
		),
		browserLaunches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "browser_launches_total",
				Help:      "Browser instances launched by the session manager",
			},
		),
	}
}

func (c *Collector) RecordDispatch(status string) {
	c.dispatchTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordAutomation(strategy, state string, elapsed time.Duration) {
	c.automationTotal.WithLabelValues(strategy, state).Inc()
	c.automationDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (c *Collector) RecordBrowserLaunch() {
	c.browserLaunches.Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
