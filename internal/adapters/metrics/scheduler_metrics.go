package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

var _ scheduler.Recorder = (*SchedulerMetricsCollector)(nil)

// SchedulerMetricsCollector records tick and phase measurements
type SchedulerMetricsCollector struct {
	ticksTotal          prometheus.Counter
	tickDuration        prometheus.Histogram
	phaseDuration       *prometheus.HistogramVec
	faultsTotal         *prometheus.CounterVec
	lastTick            prometheus.Gauge
	missionsActive      prometheus.Gauge
	missionsDeactivated prometheus.Gauge
}

// NewSchedulerMetricsCollector creates a new scheduler metrics collector
func NewSchedulerMetricsCollector() *SchedulerMetricsCollector {
	return &SchedulerMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of ticks executed",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time of a full tick across all phases",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),

		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase_duration_seconds",
				Help:      "Wall time of one phase barrier",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"phase"},
		),

		faultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "faults_total",
				Help:      "Total number of isolated mission phase faults",
			},
			[]string{"operation", "mission", "phase"},
		),

		lastTick: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_tick",
				Help:      "Number of the last tick executed",
			},
		),

		missionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "missions_active",
				Help:      "Missions driven in the last tick",
			},
		),

		missionsDeactivated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "missions_deactivated",
				Help:      "Missions that sat out the last tick after init",
			},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SchedulerMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.tickDuration,
		c.phaseDuration,
		c.faultsTotal,
		c.lastTick,
		c.missionsActive,
		c.missionsDeactivated,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func (c *SchedulerMetricsCollector) RecordPhase(phase mission.Phase, duration time.Duration) {
	c.phaseDuration.WithLabelValues(string(phase)).Observe(duration.Seconds())
}

func (c *SchedulerMetricsCollector) RecordFault(operation, missionName string, phase mission.Phase) {
	c.faultsTotal.WithLabelValues(operation, missionName, string(phase)).Inc()
}

func (c *SchedulerMetricsCollector) RecordTick(report scheduler.TickReport) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(report.Duration.Seconds())
	c.lastTick.Set(float64(report.Tick))
	c.missionsActive.Set(float64(report.Missions - report.Deactivated))
	c.missionsDeactivated.Set(float64(report.Deactivated))
}
