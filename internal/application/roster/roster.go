package roster

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colony-go/internal/application/missions"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// Roster is the YAML list of operations the colony runs
type Roster struct {
	Operations []OperationSpec `yaml:"operations" validate:"required,min=1,dive"`
}

// OperationSpec declares one operation and its missions
type OperationSpec struct {
	Name      string          `yaml:"name" validate:"required"`
	Room      string          `yaml:"room" validate:"required"`
	SpawnRoom string          `yaml:"spawn_room,omitempty"`
	Stopped   bool            `yaml:"stopped,omitempty"`
	Missions  []missions.Spec `yaml:"missions" validate:"required,min=1,dive"`
}

var rosterValidator = validator.New()

// Load reads and validates a roster file
func Load(path string) (*Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates roster YAML
func Parse(b []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if err := rosterValidator.Struct(&r); err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}

	seen := make(map[string]bool)
	for _, op := range r.Operations {
		if seen[op.Name] {
			return nil, fmt.Errorf("roster: duplicate operation %s", op.Name)
		}
		seen[op.Name] = true
	}
	return &r, nil
}

// SpawnGroupResolver returns the spawn group serving a room
type SpawnGroupResolver func(room string) (world.SpawnGroup, error)

// Build creates the roster's operations with their missions. Operations not
// marked stopped are started at tick.
func (r *Roster) Build(registry *missions.Registry, spawnGroups SpawnGroupResolver, deps missions.Dependencies, tick uint64) ([]*mission.Operation, error) {
	ops := make([]*mission.Operation, 0, len(r.Operations))
	for _, spec := range r.Operations {
		op, err := mission.NewOperation(spec.Name, spec.Room, spec.SpawnRoom)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", spec.Name, err)
		}

		group, err := spawnGroups(op.SpawnRoom())
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", spec.Name, err)
		}
		opDeps := deps
		opDeps.SpawnGroup = group

		for _, ms := range spec.Missions {
			m, err := registry.Build(op, ms, opDeps)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", spec.Name, err)
			}
			if err := op.AddMission(m); err != nil {
				return nil, err
			}
		}

		if !spec.Stopped {
			if err := op.Start(tick); err != nil {
				return nil, fmt.Errorf("operation %s: %w", spec.Name, err)
			}
		}
		ops = append(ops, op)
	}
	return ops, nil
}
