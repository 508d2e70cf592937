package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// SpawnMetricsCollector counts spawn requests and the energy they ask for
type SpawnMetricsCollector struct {
	requestsTotal *prometheus.CounterVec
	energyTotal   *prometheus.CounterVec
}

// NewSpawnMetricsCollector creates a new spawn metrics collector
func NewSpawnMetricsCollector() *SpawnMetricsCollector {
	return &SpawnMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: spawnSubsystem,
				Name:      "requests_total",
				Help:      "Total number of spawn requests by mission role and result",
			},
			[]string{"room", "namespace", "role", "result"},
		),
		energyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: spawnSubsystem,
				Name:      "energy_total",
				Help:      "Total body cost of accepted spawn requests",
			},
			[]string{"room", "role"},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SpawnMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.requestsTotal, c.energyTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

func (c *SpawnMetricsCollector) RecordSpawnRequest(room, ns, role string, cost int, err error) {
	result := "accepted"
	if err != nil {
		result = "rejected"
	}
	c.requestsTotal.WithLabelValues(room, ns, role, result).Inc()
	if err == nil {
		c.energyTotal.WithLabelValues(room, role).Add(float64(cost))
	}
}

// InstrumentedSpawnGroup reports every Submit to the global spawn recorder
type InstrumentedSpawnGroup struct {
	world.SpawnGroup
}

// InstrumentSpawnGroup wraps group; a nil recorder makes the wrapper a pass-through
func InstrumentSpawnGroup(group world.SpawnGroup) *InstrumentedSpawnGroup {
	return &InstrumentedSpawnGroup{SpawnGroup: group}
}

func (g *InstrumentedSpawnGroup) Submit(req world.SpawnRequest) error {
	err := g.SpawnGroup.Submit(req)
	RecordSpawnRequest(g.Room(), req.Namespace, req.Role, req.Body.Cost(), err)
	return err
}
