package missions

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/workforce"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/pkg/utils"
)

// Mission type names accepted in the roster
const (
	TypeUpgrade       = "upgrade"
	TypeRemoteUpgrade = "remote_upgrade"
)

// Spec is one mission entry of an operation in the roster
type Spec struct {
	Type string `yaml:"type" validate:"required"`

	// Name overrides the mission name used in its namespace; defaults to Type
	Name string `yaml:"name,omitempty"`

	Boost          bool  `yaml:"boost,omitempty"`
	AllowUnboosted *bool `yaml:"allow_unboosted,omitempty"`

	// Max overrides the computed upgrader count of a remote upgrade mission
	Max *int `yaml:"max,omitempty" validate:"omitempty,gte=0"`
}

// MissionName returns the name the mission is namespaced under
func (s Spec) MissionName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

// Dependencies are the collaborators every mission is built with
type Dependencies struct {
	World      world.World
	SpawnGroup world.SpawnGroup
	Store      mission.MemoryStore
	Tuning     Tuning
	Namer      workforce.NameFunc
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Namer == nil {
		d.Namer = utils.GenerateUnitName
	}
	if d.Tuning == (Tuning{}) {
		d.Tuning = DefaultTuning()
	}
	return d
}

// Factory builds a mission for an operation
type Factory func(op *mission.Operation, spec Spec, deps Dependencies) (mission.Mission, error)

// Registry maps roster type names to mission factories
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in mission types
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(TypeUpgrade, func(op *mission.Operation, spec Spec, deps Dependencies) (mission.Mission, error) {
		return NewUpgradeMission(op, spec, deps), nil
	})
	r.Register(TypeRemoteUpgrade, func(op *mission.Operation, spec Spec, deps Dependencies) (mission.Mission, error) {
		return NewRemoteUpgradeMission(op, spec, deps), nil
	})
	return r
}

// Register adds or replaces a factory
func (r *Registry) Register(typeName string, f Factory) {
	r.factories[typeName] = f
}

// Build creates the mission described by spec
func (r *Registry) Build(op *mission.Operation, spec Spec, deps Dependencies) (mission.Mission, error) {
	f, ok := r.factories[spec.Type]
	if !ok {
		return nil, fmt.Errorf("unknown mission type %q (known: %v)", spec.Type, r.Types())
	}
	if deps.World == nil || deps.SpawnGroup == nil {
		return nil, fmt.Errorf("mission %s needs a world and a spawn group", spec.Type)
	}
	return f(op, spec, deps.withDefaults())
}

// Types returns the registered type names in order
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	_ mission.Mission = (*UpgradeMission)(nil)
	_ mission.Mission = (*RemoteUpgradeMission)(nil)
)
