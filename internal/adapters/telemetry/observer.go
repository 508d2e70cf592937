package telemetry

import (
	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/application/scheduler"
)

// Observer collects a TickRecord after every tick of a simulated world and
// writes it to the output manager when one is set
type Observer struct {
	world     *sim.World
	output    *OutputManager
	records   []TickRecord
	submitted int
}

// NewObserver creates an observer; output may be nil
func NewObserver(w *sim.World, output *OutputManager) *Observer {
	return &Observer{world: w, output: output, submitted: totalSubmitted(w)}
}

func (o *Observer) ObserveTick(report scheduler.TickReport) error {
	submitted := totalSubmitted(o.world)
	record := NewTickRecord(report, submitted-o.submitted, o.world.Stats(), len(o.world.Units()))
	o.submitted = submitted
	o.records = append(o.records, record)

	if err := o.output.WriteTick(record); err != nil {
		return err
	}
	return o.output.WriteRooms(NewRoomRecords(report.Tick, o.world.Snapshot()))
}

// Records returns every record collected so far
func (o *Observer) Records() []TickRecord {
	return o.records
}

// Summary summarises the collected records
func (o *Observer) Summary() Summary {
	return Summarize(o.records)
}

func totalSubmitted(w *sim.World) int {
	total := 0
	for _, g := range w.SpawnGroups() {
		total += g.Submitted()
	}
	return total
}
