package mission

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Operation groups the missions that share a goal. It is the unit the
// scheduler starts, stops and iterates.
type Operation struct {
	name      string
	room      string
	spawnRoom string
	missions  []Mission
	lifecycle *shared.LifecycleStateMachine
}

// NewOperation creates a pending operation
func NewOperation(name, room, spawnRoom string) (*Operation, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "operation name is required")
	}
	if room == "" {
		return nil, shared.NewValidationError("room", "operation room is required")
	}
	if spawnRoom == "" {
		spawnRoom = room
	}
	return &Operation{
		name:      name,
		room:      room,
		spawnRoom: spawnRoom,
		lifecycle: shared.NewLifecycleStateMachine(),
	}, nil
}

func (o *Operation) Name() string        { return o.name }
func (o *Operation) Room() string        { return o.room }
func (o *Operation) SpawnRoom() string   { return o.spawnRoom }
func (o *Operation) Missions() []Mission { return o.missions }

// AddMission appends a mission; namespaces must be unique within the operation
func (o *Operation) AddMission(m Mission) error {
	for _, existing := range o.missions {
		if existing.Namespace() == m.Namespace() {
			return fmt.Errorf("operation %s already has a mission in namespace %s", o.name, m.Namespace())
		}
	}
	o.missions = append(o.missions, m)
	return nil
}

// Start marks the operation running at tick
func (o *Operation) Start(tick uint64) error {
	return o.lifecycle.Start(tick)
}

// Stop removes the operation from scheduling; takes effect from the next tick
func (o *Operation) Stop(tick uint64) error {
	return o.lifecycle.Stop(tick)
}

func (o *Operation) IsRunning() bool {
	return o.lifecycle.IsRunning()
}

func (o *Operation) Status() shared.LifecycleStatus {
	return o.lifecycle.Status()
}

// Fail records why the operation could not run and removes it from scheduling
func (o *Operation) Fail(tick uint64, err error) error {
	return o.lifecycle.Fail(tick, err)
}
