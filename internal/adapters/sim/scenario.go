package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the YAML description of a starting world
type Scenario struct {
	Tick        uint64               `yaml:"tick"`
	Rooms       []RoomSpec           `yaml:"rooms"`
	Markers     map[string]PointSpec `yaml:"markers,omitempty"`
	SpawnGroups []SpawnGroupSpec     `yaml:"spawn_groups"`
}

type RoomSpec struct {
	Name     string `yaml:"name"`
	Vision   *bool  `yaml:"vision,omitempty"`
	Hostiles int    `yaml:"hostiles,omitempty"`

	// Income is the energy per tick harvested into the room's storage, or its
	// fullest container when no storage exists
	Income int `yaml:"income,omitempty"`

	Walls      [][2]int        `yaml:"walls,omitempty"`
	Controller *ControllerSpec `yaml:"controller,omitempty"`
	Storage    *StructureSpec  `yaml:"storage,omitempty"`
	Spawns     []PointSpec     `yaml:"spawns,omitempty"`
	Sources    []SourceSpec    `yaml:"sources,omitempty"`
	Structures []StructureSpec `yaml:"structures,omitempty"`
	Sites      []StructureSpec `yaml:"sites,omitempty"`
	Units      []UnitSpec      `yaml:"units,omitempty"`
}

type PointSpec struct {
	Room string `yaml:"room,omitempty"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

type ControllerSpec struct {
	X        int `yaml:"x"`
	Y        int `yaml:"y"`
	Level    int `yaml:"level"`
	Progress int `yaml:"progress,omitempty"`
}

type SourceSpec struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Energy int `yaml:"energy,omitempty"`
}

type StructureSpec struct {
	Type    string `yaml:"type,omitempty"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Energy  int    `yaml:"energy,omitempty"`
	Hits    int    `yaml:"hits,omitempty"`
	HitsMax int    `yaml:"hits_max,omitempty"`
}

type UnitSpec struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	Role      string `yaml:"role"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Work      int    `yaml:"work"`
	Carry     int    `yaml:"carry"`
	Move      int    `yaml:"move"`
	Carried   int    `yaml:"carried,omitempty"`
	TTL       int    `yaml:"ttl,omitempty"`
	OriginID  string `yaml:"origin_id,omitempty"`
}

type SpawnGroupSpec struct {
	Room           string `yaml:"room"`
	MaxSpawnEnergy int    `yaml:"max_spawn_energy"`
	QueueLimit     int    `yaml:"queue_limit,omitempty"`
}

// LoadScenario reads and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(b)
}

// ParseScenario decodes and validates scenario YAML
func ParseScenario(b []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks names are unique and every spawn group has a room
func (s *Scenario) Validate() error {
	if len(s.Rooms) == 0 {
		return fmt.Errorf("at least one room is required")
	}
	seen := make(map[string]bool)
	for _, r := range s.Rooms {
		if _, _, err := parseRoomName(r.Name); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate room %s", r.Name)
		}
		seen[r.Name] = true
	}
	for _, g := range s.SpawnGroups {
		if !seen[g.Room] {
			return fmt.Errorf("spawn group room %s is not declared", g.Room)
		}
		if g.MaxSpawnEnergy <= 0 {
			return fmt.Errorf("spawn group %s: max_spawn_energy must be > 0", g.Room)
		}
	}
	for name, m := range s.Markers {
		if !seen[m.Room] {
			return fmt.Errorf("marker %s: room %s is not declared", name, m.Room)
		}
	}
	return nil
}
