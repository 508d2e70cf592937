package missions

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/placement"
	"github.com/andrescamacho/colony-go/internal/domain/potency"
	"github.com/andrescamacho/colony-go/internal/domain/roles"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/workforce"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// Role names used by the upgrade mission
const (
	RoleUpgrader     = "upgrader"
	RoleUpgraderCart = "upgraderCart"
	RolePaver        = "paver"
	RoleInfluxCart   = "influxCart"
)

const (
	// UpgradeBoost is the enhancement requested for upgraders when boosting
	UpgradeBoost = "upgrade"

	// LinkBatteryLevel is the controller level from which the battery is a link
	LinkBatteryLevel = 5

	remotePotencyPerUpgrader = 23
	maxPotencyPerUpgrader    = 30
	upgraderUnitCost         = 125
	upgraderBaseCost         = 200
	upgraderCarryParts       = 4
	smallSpawnEnergy         = 800
	maxInfluxCarts           = 10
	influxCartParts          = 25
	linkSearchRange          = 2
)

// upgradeState is rebuilt in Init every tick and dropped afterwards
type upgradeState struct {
	controller      *world.Controller
	battery         *world.Structure
	storage         *world.Structure
	remoteSpawning  bool
	distanceToSpawn int
	positions       []shared.Position
	constructing    bool
	potency         int

	upgraders   []*world.Unit
	supplyCarts []*world.Unit
	pavers      []*world.Unit
	influxCarts []*world.Unit
}

// UpgradeMission feeds a room's controller from a battery next to it
type UpgradeMission struct {
	op             *mission.Operation
	name           string
	namespace      string
	deps           Dependencies
	boost          bool
	allowUnboosted bool

	planner   *workforce.Planner
	estimator *potency.Estimator

	memory UpgradeMemory
	loaded bool
	state  upgradeState
}

// NewUpgradeMission creates an upgrade mission for op
func NewUpgradeMission(op *mission.Operation, spec Spec, deps Dependencies) *UpgradeMission {
	deps = deps.withDefaults()
	name := spec.MissionName()
	namespace := mission.Namespace(op.Name(), name)
	allowUnboosted := true
	if spec.AllowUnboosted != nil {
		allowUnboosted = *spec.AllowUnboosted
	}

	return &UpgradeMission{
		op:             op,
		name:           name,
		namespace:      namespace,
		deps:           deps,
		boost:          spec.Boost,
		allowUnboosted: allowUnboosted,
		planner:        workforce.NewPlanner(deps.SpawnGroup, namespace, deps.Namer),
		estimator: potency.NewEstimator(potency.Config{
			RefreshInterval:     deps.Tuning.PotencyRefreshInterval,
			NeedEnergyThreshold: deps.Tuning.NeedEnergyThreshold,
			EnergyPerPotency:    deps.Tuning.StorageEnergyPerPotency,
			LinkCapacity:        deps.Tuning.LinkCapacity,
		}),
	}
}

func (m *UpgradeMission) Name() string      { return m.name }
func (m *UpgradeMission) Namespace() string { return m.namespace }

// Memory returns a copy of the persistent state
func (m *UpgradeMission) Memory() UpgradeMemory { return m.memory }

// Potency returns the potency computed in the last roleCall
func (m *UpgradeMission) Potency() int { return m.state.potency }

func (m *UpgradeMission) Init(tc *mission.TickContext) error {
	m.state = upgradeState{}
	if err := m.ensureMemory(tc); err != nil {
		return err
	}

	w := m.deps.World
	room := m.op.Room()
	controller, ok := w.Controller(room)
	if !ok {
		return shared.NewMissingTargetError("controller in " + room)
	}
	m.state.controller = controller

	group := m.deps.SpawnGroup
	if group.Room() != room {
		m.state.remoteSpawning = true
		m.state.distanceToSpawn = w.RoomLinearDistance(group.Room(), room) * shared.RoomSize
	} else {
		m.state.distanceToSpawn = m.findDistanceToSpawn(group.Position(), controller.Pos)
	}

	if storage, ok := w.Storage(room); ok {
		m.state.storage = storage
	}
	m.state.constructing = len(w.ConstructionSites(room)) > 0
	m.state.battery = m.findControllerBattery(tc)
	m.state.positions = m.upgraderPositions()
	if m.memory.PositionCount == nil && m.state.battery != nil {
		m.memory.PositionCount = intPtr(len(m.state.positions))
	}
	return nil
}

func (m *UpgradeMission) RoleCall(tc *mission.TickContext) error {
	logger := common.LoggerFromContext(tc.Ctx)
	group := m.deps.SpawnGroup
	maxEnergy := group.MaxSpawnEnergy()

	total := m.findUpgraderPotency(tc)
	m.state.potency = total

	var perCreep int
	if m.state.remoteSpawning {
		perCreep = min(total, remotePotencyPerUpgrader)
		perCreep = logistics.AffordableWork(perCreep, maxEnergy, func(work int) world.Body {
			return logistics.WorkerBody(work, upgraderCarryParts, work)
		})
	} else {
		perCreep = min((maxEnergy-upgraderBaseCost)/upgraderUnitCost, maxPotencyPerUpgrader, total)
		perCreep = logistics.AffordableWork(perCreep, maxEnergy, func(work int) world.Body {
			return logistics.WorkerBody(work, upgraderCarryParts, (work+1)/2)
		})
	}

	maxUpgraders := 0
	if perCreep > 0 {
		maxUpgraders = min(total/perCreep, m.deps.Tuning.MaxUpgraders)
	}
	if m.memory.PositionCount != nil {
		maxUpgraders = min(*m.memory.PositionCount, maxUpgraders)
	}
	if m.state.constructing {
		maxUpgraders = min(maxUpgraders, 1)
	}

	upgraderBody := func() world.Body {
		switch {
		case m.state.constructing:
			return logistics.WorkerBody(1, 1, 1)
		case m.state.remoteSpawning:
			return logistics.WorkerBody(perCreep, upgraderCarryParts, perCreep)
		case maxEnergy < smallSpawnEnergy:
			return logistics.RatioBody(2, 1, 1, maxEnergy, 1)
		default:
			return logistics.WorkerBody(perCreep, upgraderCarryParts, (perCreep+1)/2)
		}
	}

	opts := workforce.Options{PrespawnLeadTime: m.state.distanceToSpawn, MoveToTarget: true}
	if m.boost {
		opts.Boosts = []string{UpgradeBoost}
		opts.AllowUnboosted = m.allowUnboosted
	}

	var errs []error
	res, err := m.planner.HeadCount(RoleUpgrader, upgraderBody, fixedMax(maxUpgraders), opts)
	m.state.upgraders = res.Units
	errs = append(errs, err)

	if m.state.battery != nil && m.state.battery.Type == world.StructureContainer {
		analyzer := logistics.NewTransportAnalyzer(maxEnergy, m.deps.Tuning.LoadOverhead, 2)
		analysis := analyzer.Resolve(m.memory.TransportAnalysis, m.deps.Tuning.SupplyDistance, total)
		m.memory.TransportAnalysis = analysis
		m.memory.CartCount = analysis.CartsNeeded

		res, err = m.planner.HeadCount(RoleUpgraderCart, func() world.Body { return analysis.Body }, fixedMax(analysis.CartsNeeded),
			workforce.Options{PrespawnLeadTime: m.state.distanceToSpawn})
		m.state.supplyCarts = res.Units
		errs = append(errs, err)
	}

	if m.needsPaver() {
		res, err = m.planner.HeadCount(RolePaver, func() world.Body { return logistics.RatioBody(2, 1, 1, maxEnergy, 5) }, fixedMax(1),
			workforce.Options{})
		m.state.pavers = res.Units
		errs = append(errs, err)
	}

	influxMax, influxMemory := m.influxDemand()
	res, err = m.planner.HeadCount(RoleInfluxCart, func() world.Body { return logistics.WorkerBody(0, influxCartParts, influxCartParts) }, fixedMax(influxMax),
		workforce.Options{Memory: influxMemory})
	m.state.influxCarts = res.Units
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Log(common.LevelDebug, "role call", map[string]interface{}{
		"potency":   total,
		"upgraders": len(m.state.upgraders),
		"max":       maxUpgraders,
		"carts":     m.memory.CartCount,
	})
	return nil
}

func (m *UpgradeMission) Actions(tc *mission.TickContext) error {
	logger := common.LoggerFromContext(tc.Ctx)
	w := m.deps.World
	rally := m.state.controller.Pos

	index := 0
	for _, u := range m.state.upgraders {
		if u.Spawning {
			continue
		}
		var pos *shared.Position
		if index < len(m.state.positions) {
			pos = &m.state.positions[index]
		}
		roles.Upgrader(w, u, roles.UpgraderAssignment{
			Controller: m.state.controller,
			Battery:    m.state.battery,
			Position:   pos,
			Rally:      rally,
		})
		index++
	}

	for _, u := range active(m.state.pavers) {
		roles.Paver(w, u, roles.PaverAssignment{
			RoadRepairIDs: m.memory.RoadRepairIDs,
			RoadSites:     m.memory.RoadSites,
			Supply:        m.state.storage,
			Rally:         rally,
		})
	}

	if m.state.battery != nil {
		supply := m.supplyFor()
		for _, u := range active(m.state.supplyCarts) {
			roles.SupplyCart(w, u, roles.SupplyCartAssignment{Battery: m.state.battery, Supply: supply, Rally: rally})
		}
	}

	for _, u := range active(m.state.influxCarts) {
		if _, err := roles.InfluxCart(w, u, roles.InfluxCartAssignment{Destination: m.state.storage, Rally: rally}); err != nil {
			logger.Log(common.LevelDebug, "influx cart idle", map[string]interface{}{"unit": u.Name, "error": err.Error()})
		}
	}

	if m.state.battery != nil && m.paveDue(tc.Tick) {
		m.pavePath(tc)
	}
	return nil
}

func (m *UpgradeMission) InvalidateCache(tc *mission.TickContext) error {
	if shared.Chance(tc.Random, m.deps.Tuning.PositionInvalidationProbability) {
		m.memory.PositionCount = nil
	}
	if shared.Chance(tc.Random, m.deps.Tuning.TransportInvalidationProbability) {
		m.memory.TransportAnalysis = nil
	}
	if shared.Chance(tc.Random, m.deps.Tuning.DistanceInvalidationProbability) {
		m.memory.DistanceToSpawn = nil
	}
	return nil
}

func (m *UpgradeMission) Finalize(tc *mission.TickContext) error {
	return saveMemory(tc.Ctx, m.deps.Store, m.namespace, &m.memory)
}

func (m *UpgradeMission) ensureMemory(tc *mission.TickContext) error {
	if m.loaded {
		return nil
	}
	if err := loadMemory(tc.Ctx, m.deps.Store, m.namespace, &m.memory); err != nil {
		common.LoggerFromContext(tc.Ctx).Log(common.LevelWarning, "resetting mission memory", map[string]interface{}{
			"error": err.Error(),
		})
		m.memory = UpgradeMemory{}
	}
	m.loaded = true
	return nil
}

func (m *UpgradeMission) findDistanceToSpawn(from, to shared.Position) int {
	if m.memory.DistanceToSpawn != nil {
		return *m.memory.DistanceToSpawn
	}
	path, err := m.deps.World.FindPath(from, to, world.MoveOptions{Range: 1})
	if err != nil {
		return 0
	}
	m.memory.DistanceToSpawn = intPtr(path.Length)
	return path.Length
}

// findControllerBattery returns the battery next to the controller. A
// container is torn down once the controller reaches link level, and a missing
// battery gets a construction site at the searched position.
func (m *UpgradeMission) findControllerBattery(tc *mission.TickContext) *world.Structure {
	logger := common.LoggerFromContext(tc.Ctx)
	w := m.deps.World
	controller := m.state.controller

	battery := m.batteryNear(controller)
	if battery != nil && battery.Type == world.StructureContainer && controller.Level >= LinkBatteryLevel {
		if err := w.Destroy(battery); err != nil {
			logger.Log(common.LevelWarning, "failed to destroy container battery", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	if battery != nil {
		return battery
	}

	spawns := w.Spawns(m.op.Room())
	if len(spawns) == 0 {
		return nil
	}

	if m.memory.BatteryPosition == nil {
		pos, err := placement.FindBatteryPosition(w, w, spawns[0].Pos, controller.Pos, m.op.Name())
		if err != nil {
			logger.Log(common.LevelWarning, err.Error(), nil)
			return nil
		}
		m.memory.BatteryPosition = &pos
	}

	structureType := world.StructureLink
	if controller.Level < LinkBatteryLevel {
		structureType = world.StructureContainer
	}
	position := *m.memory.BatteryPosition
	if _, ok := w.ConstructionSiteAt(position); ok {
		return nil
	}
	outcome := "OK"
	if err := w.PlaceConstructionSite(position, structureType); err != nil {
		outcome = err.Error()
	}
	logger.Log(common.LevelInfo, fmt.Sprintf("placing battery in %s, outcome: %s, %s", m.op.Name(), outcome, position), nil)
	return nil
}

// batteryNear prefers a link, then a container, then storage within reach of the controller
func (m *UpgradeMission) batteryNear(controller *world.Controller) *world.Structure {
	found := m.deps.World.FindStructuresInRange(controller.Pos, roles.WorkRange,
		world.StructureLink, world.StructureContainer, world.StructureStorage)
	for _, t := range []world.StructureType{world.StructureLink, world.StructureContainer, world.StructureStorage} {
		for _, s := range found {
			if s.Type == t {
				return s
			}
		}
	}
	return nil
}

// upgraderPositions are the open tiles next to the battery that reach the controller
func (m *UpgradeMission) upgraderPositions() []shared.Position {
	if m.state.battery == nil {
		return nil
	}
	w := m.deps.World
	var positions []shared.Position
	for _, tile := range w.OpenAdjacent(m.state.battery.Pos, true) {
		if !tile.InRangeTo(m.state.controller.Pos, roles.WorkRange) {
			continue
		}
		if _, road := w.StructureAt(tile, world.StructureRoad); road {
			continue
		}
		positions = append(positions, tile)
	}
	return positions
}

func (m *UpgradeMission) findUpgraderPotency(tc *mission.TickContext) int {
	w := m.deps.World
	room := m.op.Room()

	in := potency.Input{
		Battery:              m.state.battery,
		Storage:              m.state.storage,
		HostilesPresent:      w.HostilesPresent(room),
		ControllerAtMaxLevel: m.state.controller.AtMaxLevel(),
		SourceCount:          len(w.Sources(room)),
	}
	if m.state.storage != nil {
		in.LinksNearStorage = len(w.FindStructuresInRange(m.state.storage.Pos, linkSearchRange, world.StructureLink))
	}

	value, err := m.estimator.Estimate(in, &m.memory.Potency, tc.Tick)
	var unrecognized *shared.UnrecognizedBatteryError
	if errors.As(err, &unrecognized) {
		common.LoggerFromContext(tc.Ctx).Log(common.LevelWarning,
			fmt.Sprintf("unrecognized controller battery type in %s, %s", m.op.Name(), unrecognized.StructureType), nil)
	}
	return value
}

func (m *UpgradeMission) needsPaver() bool {
	return (m.memory.RoadRepairIDs != nil || m.memory.RoadSites != nil) && !m.state.remoteSpawning
}

// influxDemand returns how many influx carts are wanted and the memory they
// spawn with. Carts only run while spawning remotely from a rich room into a
// poor one.
func (m *UpgradeMission) influxDemand() (int, world.UnitMemory) {
	if !m.state.remoteSpawning || m.state.storage == nil {
		return 0, world.UnitMemory{}
	}
	origin, ok := m.deps.World.Storage(m.deps.SpawnGroup.Room())
	if !ok {
		return 0, world.UnitMemory{}
	}
	if m.state.storage.Energy < m.deps.Tuning.NeedEnergyThreshold && origin.Energy > m.deps.Tuning.SupplyEnergyThreshold {
		return maxInfluxCarts, world.UnitMemory{OriginID: origin.ID}
	}
	return 0, world.UnitMemory{}
}

// supplyFor returns where supply carts procure energy: the storage, or the
// fullest container other than the battery
func (m *UpgradeMission) supplyFor() *world.Structure {
	if m.state.storage != nil {
		return m.state.storage
	}
	var best *world.Structure
	for _, s := range m.deps.World.FindStructuresInRange(m.state.controller.Pos, shared.RoomSize, world.StructureContainer) {
		if s.ID == m.state.battery.ID {
			continue
		}
		if best == nil || s.Energy > best.Energy {
			best = s
		}
	}
	return best
}

func (m *UpgradeMission) paveDue(tick uint64) bool {
	interval := uint64(max(m.deps.Tuning.PaveInterval, 1))
	return m.memory.LastPaveTick == nil || tick >= *m.memory.LastPaveTick+interval
}

// pavePath walks the path from storage (or the first spawn) to the battery,
// placing road sites on bare tiles and recording roads that need repair
func (m *UpgradeMission) pavePath(tc *mission.TickContext) {
	w := m.deps.World
	var start shared.Position
	if m.state.storage != nil {
		start = m.state.storage.Pos
	} else if spawns := w.Spawns(m.op.Room()); len(spawns) > 0 {
		start = spawns[0].Pos
	} else {
		return
	}

	path, err := w.FindPath(start, m.state.battery.Pos, world.MoveOptions{Range: 1})
	if err != nil {
		common.LoggerFromContext(tc.Ctx).Log(common.LevelWarning, "failed to find paving path", map[string]interface{}{"error": err.Error()})
		return
	}

	var repairIDs []string
	var sites []shared.Position
	for _, pos := range path.Positions {
		road, ok := w.StructureAt(pos, world.StructureRoad)
		if !ok {
			if _, pending := w.ConstructionSiteAt(pos); pending || w.PlaceConstructionSite(pos, world.StructureRoad) == nil {
				sites = append(sites, pos)
			}
			continue
		}
		if road.NeedsRepair(roles.RoadRepairThreshold) {
			repairIDs = append(repairIDs, road.ID)
		}
	}

	m.memory.RoadRepairIDs = repairIDs
	m.memory.RoadSites = sites
	paved := tc.Tick
	m.memory.LastPaveTick = &paved
}

func fixedMax(n int) workforce.MaxFunc {
	return func() int { return n }
}

// active drops units that are still spawning
func active(units []*world.Unit) []*world.Unit {
	out := make([]*world.Unit, 0, len(units))
	for _, u := range units {
		if !u.Spawning {
			out = append(out, u)
		}
	}
	return out
}
