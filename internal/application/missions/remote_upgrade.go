package missions

import (
	"errors"
	"sort"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/roles"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/workforce"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// Role names used by the remote upgrade mission
const (
	RoleRemoteCart     = "cart"
	RoleRemoteBuilder  = "builder"
	RoleRemoteUpgrader = "upgrader"
)

const (
	// BuildBoost is the enhancement requested for remote builders
	BuildBoost = "build"

	// LongRangeRooms is the room distance beyond which spawning is long range
	LongRangeRooms = 2

	// ScavengeEnergy marks carts that pick up loose energy on the way
	ScavengeEnergy = "energy"

	potencyPerUpgrader          = 31
	longRangePotencyPerUpgrader = 23
	targetMarkerSuffix          = "_target"
)

type remoteUpgradeState struct {
	target       shared.Position
	longRange    bool
	energySource *world.Structure
	container    *world.Structure
	site         *world.ConstructionSite
	controller   *world.Controller
	positions    []shared.Position
	inbound      roles.Inbound

	carts     []*world.Unit
	builders  []*world.Unit
	upgraders []*world.Unit
}

// RemoteUpgradeMission upgrades the controller of a target room from a
// container at a marker, kept filled by carts from a storage
type RemoteUpgradeMission struct {
	op        *mission.Operation
	name      string
	namespace string
	deps      Dependencies
	maxOption *int

	planner *workforce.Planner

	memory RemoteUpgradeMemory
	loaded bool
	state  remoteUpgradeState
}

// NewRemoteUpgradeMission creates a remote upgrade mission for op. The target
// is the marker named "<operation>_target".
func NewRemoteUpgradeMission(op *mission.Operation, spec Spec, deps Dependencies) *RemoteUpgradeMission {
	deps = deps.withDefaults()
	name := spec.MissionName()
	namespace := mission.Namespace(op.Name(), name)
	return &RemoteUpgradeMission{
		op:        op,
		name:      name,
		namespace: namespace,
		deps:      deps,
		maxOption: spec.Max,
		planner:   workforce.NewPlanner(deps.SpawnGroup, namespace, deps.Namer),
	}
}

func (m *RemoteUpgradeMission) Name() string      { return m.name }
func (m *RemoteUpgradeMission) Namespace() string { return m.namespace }

// Memory returns a copy of the persistent state
func (m *RemoteUpgradeMission) Memory() RemoteUpgradeMemory { return m.memory }

// Positions returns the standing tiles found this tick
func (m *RemoteUpgradeMission) Positions() []shared.Position { return m.state.positions }

func (m *RemoteUpgradeMission) Init(tc *mission.TickContext) error {
	m.state = remoteUpgradeState{}
	if !m.loaded {
		if err := loadMemory(tc.Ctx, m.deps.Store, m.namespace, &m.memory); err != nil {
			common.LoggerFromContext(tc.Ctx).Log(common.LevelWarning, "resetting mission memory", map[string]interface{}{
				"error": err.Error(),
			})
			m.memory = RemoteUpgradeMemory{}
		}
		m.loaded = true
	}

	w := m.deps.World
	target, ok := w.Marker(m.op.Name() + targetMarkerSuffix)
	if !ok {
		return shared.NewMissingTargetError(m.op.Name() + targetMarkerSuffix)
	}
	if !w.HasVision(target.Room) {
		return shared.NewMissingTargetError("vision of " + target.Room)
	}
	m.state.target = target

	group := m.deps.SpawnGroup
	m.state.longRange = w.RoomLinearDistance(target.Room, group.Room()) > LongRangeRooms
	if controller, ok := w.Controller(target.Room); ok {
		m.state.controller = controller
	}

	m.resolveEnergySource()
	m.resolveDistances()
	m.resolveContainer()
	return nil
}

func (m *RemoteUpgradeMission) RoleCall(tc *mission.TickContext) error {
	group := m.deps.SpawnGroup
	maxEnergy := group.MaxSpawnEnergy()
	spawnDistance := 0
	if m.memory.SpawnDistance != nil {
		spawnDistance = *m.memory.SpawnDistance
	}

	var errs []error
	res, err := m.planner.HeadCount(RoleRemoteCart, func() world.Body { return logistics.StandardCartBody(maxEnergy) }, m.maxCarts,
		workforce.Options{
			PrespawnLeadTime: spawnDistance,
			Memory:           world.UnitMemory{Scavenger: ScavengeEnergy},
		})
	m.state.carts = res.Units
	errs = append(errs, err)

	res, err = m.planner.HeadCount(RoleRemoteBuilder, func() world.Body { return logistics.RatioBody(1, 3.5, 0.5, maxEnergy, 0) }, m.maxBuilders,
		workforce.Options{Boosts: []string{BuildBoost}, AllowUnboosted: true})
	m.state.builders = res.Units
	errs = append(errs, err)

	upgraderBody := func() world.Body {
		if m.state.longRange {
			return longRangeUpgraderBody(maxEnergy)
		}
		return logistics.RatioBody(7.5, 1, 4, maxEnergy, 0)
	}
	res, err = m.planner.HeadCount(RoleRemoteUpgrader, upgraderBody, m.maxUpgraders,
		workforce.Options{PrespawnLeadTime: spawnDistance, Boosts: []string{UpgradeBoost}, AllowUnboosted: true})
	m.state.upgraders = res.Units
	errs = append(errs, err)

	return errors.Join(errs...)
}

func (m *RemoteUpgradeMission) Actions(tc *mission.TickContext) error {
	w := m.deps.World
	target := m.state.target

	for _, u := range active(m.state.builders) {
		roles.Builder(w, u, roles.BuilderAssignment{
			Site:     m.state.site,
			Group:    m.deps.SpawnGroup,
			NextRole: RoleRemoteUpgrader,
		})
	}

	carts := active(m.state.carts)
	if m.state.container != nil {
		pos := m.state.container.Pos
		sort.SliceStable(carts, func(i, j int) bool {
			return carts[i].Pos.RangeTo(pos) < carts[j].Pos.RangeTo(pos)
		})
	}
	var firstBuilder *world.Unit
	if builders := active(m.state.builders); len(builders) > 0 && m.state.site != nil {
		firstBuilder = builders[0]
	}
	distance := 0
	if m.memory.Distance != nil {
		distance = *m.memory.Distance
	}
	for _, u := range carts {
		roles.RemoteCart(w, u, roles.RemoteCartAssignment{
			Source:           m.state.energySource,
			Container:        m.state.container,
			Builder:          firstBuilder,
			Inbound:          &m.state.inbound,
			Distance:         distance,
			RetirementMargin: m.deps.Tuning.CartRetirementMargin,
			Rally:            target,
		})
	}

	var localStorage *world.Structure
	if !m.state.longRange {
		localStorage, _ = w.Storage(m.op.Room())
	}
	order := 0
	for _, u := range active(m.state.upgraders) {
		var pos *shared.Position
		if order < len(m.state.positions) {
			pos = &m.state.positions[order]
		}
		roles.RemoteUpgrader(w, u, roles.RemoteUpgraderAssignment{
			LocalStorage: localStorage,
			Positions:    m.state.positions != nil,
			Position:     pos,
			Container:    m.state.container,
			Controller:   m.state.controller,
			Target:       target,
		})
		order++
	}
	return nil
}

func (m *RemoteUpgradeMission) InvalidateCache(tc *mission.TickContext) error {
	if shared.Chance(tc.Random, m.deps.Tuning.DistanceInvalidationProbability) {
		m.memory.Distance = nil
	}
	return nil
}

func (m *RemoteUpgradeMission) Finalize(tc *mission.TickContext) error {
	return saveMemory(tc.Ctx, m.deps.Store, m.namespace, &m.memory)
}

// resolveEnergySource uses the operation room's storage until the target
// room's own storage is rich enough, then switches for good
func (m *RemoteUpgradeMission) resolveEnergySource() {
	w := m.deps.World
	if storage, ok := w.Storage(m.op.Room()); ok {
		m.state.energySource = storage
	}

	local, ok := w.Storage(m.state.target.Room)
	localReady := ok && local.Energy >= m.deps.Tuning.LocalSourceThreshold
	if m.memory.LocalSource || localReady {
		if !m.memory.LocalSource {
			m.memory.LocalSource = true
			m.memory.Distance = nil
			m.memory.SpawnDistance = nil
		}
		m.state.energySource = nil
		if ok {
			m.state.energySource = local
		}
	}
}

func (m *RemoteUpgradeMission) resolveDistances() {
	w := m.deps.World
	target := m.state.target
	if m.memory.Distance == nil && m.state.energySource != nil {
		if path, err := w.FindPath(m.state.energySource.Pos, target, world.MoveOptions{OffRoad: true}); err == nil {
			m.memory.Distance = intPtr(path.Length)
		}
	}
	if m.memory.SpawnDistance == nil {
		if path, err := w.FindPath(m.deps.SpawnGroup.Position(), target, world.MoveOptions{}); err == nil {
			m.memory.SpawnDistance = intPtr(path.Length)
		}
	}
}

// resolveContainer finds the container at the marker and its standing tiles,
// or makes sure a construction site is there
func (m *RemoteUpgradeMission) resolveContainer() {
	w := m.deps.World
	target := m.state.target

	if container, ok := w.StructureAt(target, world.StructureContainer); ok {
		m.state.container = container
		m.state.positions = m.standingPositions(container)
		return
	}

	if site, ok := w.ConstructionSiteAt(target); ok {
		m.state.site = site
		return
	}
	if err := w.PlaceConstructionSite(target, world.StructureContainer); err == nil {
		m.state.site, _ = w.ConstructionSiteAt(target)
	}
}

func (m *RemoteUpgradeMission) standingPositions(container *world.Structure) []shared.Position {
	w := m.deps.World
	positions := make([]shared.Position, 0, 9)
	for _, tile := range w.OpenAdjacent(container.Pos, true) {
		if _, road := w.StructureAt(tile, world.StructureRoad); road {
			continue
		}
		if m.state.controller != nil && !tile.InRangeTo(m.state.controller.Pos, roles.WorkRange) {
			continue
		}
		positions = append(positions, tile)
	}
	return append(positions, container.Pos)
}

func (m *RemoteUpgradeMission) maxCarts() int {
	if m.state.container == nil {
		return 1
	}
	per := potencyPerUpgrader
	if m.state.longRange {
		per = longRangeUpgraderBody(m.deps.SpawnGroup.MaxSpawnEnergy()).Work
	}
	upgraders := len(m.deps.SpawnGroup.Live(m.namespace, RoleRemoteUpgrader))
	distance := 0
	if m.memory.Distance != nil {
		distance = *m.memory.Distance
	}

	analyzer := logistics.NewTransportAnalyzer(m.deps.SpawnGroup.MaxSpawnEnergy(), m.deps.Tuning.LoadOverhead, 2)
	analysis := analyzer.Resolve(m.memory.TransportAnalysis, distance, upgraders*per)
	m.memory.TransportAnalysis = analysis
	m.memory.CartCount = analysis.CartsNeeded
	return analysis.CartsNeeded
}

func (m *RemoteUpgradeMission) maxBuilders() int {
	if m.state.site != nil && !m.state.longRange {
		return 1
	}
	return 0
}

func (m *RemoteUpgradeMission) maxUpgraders() int {
	if m.state.positions == nil || m.deps.World.HostilesPresent(m.state.target.Room) {
		return 0
	}
	if m.state.controller != nil && m.state.controller.AtMaxLevel() {
		return 0
	}
	if m.memory.Max != nil {
		return *m.memory.Max
	}
	if m.maxOption != nil {
		return *m.maxOption
	}
	return len(m.state.positions)
}

// longRangeUpgraderBody pairs every work part with a move part, shrunk to what
// the spawn group can afford.
func longRangeUpgraderBody(maxEnergy int) world.Body {
	build := func(work int) world.Body { return logistics.WorkerBody(work, upgraderCarryParts, work) }
	return build(logistics.AffordableWork(longRangePotencyPerUpgrader, maxEnergy, build))
}
