package telemetry

import (
	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/application/scheduler"
)

// TickRecord is one row of ticks.csv
type TickRecord struct {
	Tick           uint64  `csv:"tick"`
	DurationMs     float64 `csv:"duration_ms"`
	Operations     int     `csv:"operations"`
	Missions       int     `csv:"missions"`
	Deactivated    int     `csv:"deactivated"`
	Faults         int     `csv:"faults"`
	SpawnRequests  int     `csv:"spawn_requests"`
	EnergyUpgraded int     `csv:"energy_upgraded"`
	UnitsAlive     int     `csv:"units_alive"`
}

// RoomRecord is one row of rooms.csv
type RoomRecord struct {
	Tick               uint64 `csv:"tick"`
	Room               string `csv:"room"`
	ControllerLevel    int    `csv:"controller_level"`
	ControllerProgress int    `csv:"controller_progress"`
	StorageEnergy      int    `csv:"storage_energy"`
	Units              int    `csv:"units"`
	Sites              int    `csv:"sites"`
}

// NewTickRecord combines a scheduler report with world counters.
// spawnRequests is the number submitted during the tick.
func NewTickRecord(report scheduler.TickReport, spawnRequests int, stats sim.Stats, unitsAlive int) TickRecord {
	return TickRecord{
		Tick:           report.Tick,
		DurationMs:     float64(report.Duration.Microseconds()) / 1000,
		Operations:     report.Operations,
		Missions:       report.Missions,
		Deactivated:    report.Deactivated,
		Faults:         report.FaultCount(),
		SpawnRequests:  spawnRequests,
		EnergyUpgraded: stats.EnergyUpgraded,
		UnitsAlive:     unitsAlive,
	}
}

// NewRoomRecords converts a world snapshot into rows for tick
func NewRoomRecords(tick uint64, snapshot []sim.RoomSnapshot) []RoomRecord {
	records := make([]RoomRecord, 0, len(snapshot))
	for _, s := range snapshot {
		records = append(records, RoomRecord{
			Tick:               tick,
			Room:               s.Room,
			ControllerLevel:    s.ControllerLevel,
			ControllerProgress: s.ControllerProgress,
			StorageEnergy:      s.StorageEnergy,
			Units:              s.Units,
			Sites:              s.Sites,
		})
	}
	return records
}
