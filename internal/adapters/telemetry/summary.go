package telemetry

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run
type Summary struct {
	Ticks          int
	Faults         int
	SpawnRequests  int
	EnergyUpgraded int
	MeanTickMs     float64
	StdDevTickMs   float64
	P95TickMs      float64
	MaxTickMs      float64
}

// Summarize computes totals and tick duration statistics
func Summarize(records []TickRecord) Summary {
	s := Summary{Ticks: len(records)}
	if len(records) == 0 {
		return s
	}

	durations := make([]float64, len(records))
	for i, r := range records {
		durations[i] = r.DurationMs
		s.Faults += r.Faults
		s.SpawnRequests += r.SpawnRequests
	}
	// EnergyUpgraded is cumulative in the world
	s.EnergyUpgraded = records[len(records)-1].EnergyUpgraded

	sort.Float64s(durations)
	s.MeanTickMs, s.StdDevTickMs = stat.MeanStdDev(durations, nil)
	s.P95TickMs = stat.Quantile(0.95, stat.Empirical, durations, nil)
	s.MaxTickMs = durations[len(durations)-1]
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"ticks=%d faults=%d spawn_requests=%d energy_upgraded=%d tick_ms(mean=%.3f p95=%.3f max=%.3f)",
		s.Ticks, s.Faults, s.SpawnRequests, s.EnergyUpgraded, s.MeanTickMs, s.P95TickMs, s.MaxTickMs,
	)
}
