package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "colony"
	// Subsystem for tick scheduler metrics
	subsystem = "scheduler"
	// spawnSubsystem groups spawn queue metrics
	spawnSubsystem = "spawn"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSpawnRecorder is set by SetGlobalSpawnRecorder when metrics are enabled
	globalSpawnRecorder SpawnRecorder
)

// SpawnRecorder records spawn requests submitted by missions
type SpawnRecorder interface {
	RecordSpawnRequest(room, namespace, role string, cost int, err error)
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry, nil when metrics are disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSpawnRecorder sets the global spawn recorder
func SetGlobalSpawnRecorder(recorder SpawnRecorder) {
	globalSpawnRecorder = recorder
}

// RecordSpawnRequest records a spawn request globally
func RecordSpawnRequest(room, namespace, role string, cost int, err error) {
	if globalSpawnRecorder != nil {
		globalSpawnRecorder.RecordSpawnRequest(room, namespace, role, cost, err)
	}
}
