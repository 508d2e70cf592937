package missions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/test/helpers"
)

const localScenario = `
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: %d}
    storage: {x: 20, y: 14, energy: 100000}
    spawns: [{x: 10, y: 10}]
spawn_groups:
  - room: W1N1
    max_spawn_energy: %d
`

type upgradeFixture struct {
	w      *sim.World
	group  *sim.SpawnGroup
	store  *helpers.MockMemoryStore
	logger *helpers.CaptureLogger
	op     *mission.Operation
}

func newUpgradeFixture(t *testing.T, level int) *upgradeFixture {
	t.Helper()
	return newUpgradeFixtureWithEnergy(t, level, 1300)
}

func newUpgradeFixtureWithEnergy(t *testing.T, level, maxSpawnEnergy int) *upgradeFixture {
	t.Helper()
	sc, err := sim.ParseScenario([]byte(fmt.Sprintf(localScenario, level, maxSpawnEnergy)))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	group, ok := w.SpawnGroup("W1N1")
	require.True(t, ok)
	op, err := mission.NewOperation("alpha", "W1N1", "")
	require.NoError(t, err)
	return &upgradeFixture{w: w, group: group, store: helpers.NewMockMemoryStore(), logger: helpers.NewCaptureLogger(), op: op}
}

func (f *upgradeFixture) mission() *UpgradeMission {
	return NewUpgradeMission(f.op, Spec{Type: TypeUpgrade}, Dependencies{World: f.w, SpawnGroup: f.group, Store: f.store})
}

func (f *upgradeFixture) tick(tick uint64, phase mission.Phase) *mission.TickContext {
	return &mission.TickContext{
		Ctx:    common.WithLogger(context.Background(), f.logger),
		Tick:   tick,
		Phase:  phase,
		Random: shared.NewSeededRandom(int64(tick)),
	}
}

func at(x, y int) shared.Position { return shared.NewPosition("W1N1", x, y) }

func TestUpgradeMission_ContainerBatterySpawnsUpgradersAndCarts(t *testing.T) {
	// Arrange
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	m := f.mission()

	// Act
	require.NoError(t, m.Init(f.tick(3, mission.PhaseInit)))
	require.NoError(t, m.RoleCall(f.tick(3, mission.PhaseRoleCall)))

	// Assert: potency 100000/1500 = 66, 8 per upgrader, capped at 5
	assert.Equal(t, 66, m.Potency())
	assert.Equal(t, 5, f.group.Queued(m.Namespace(), RoleUpgrader))
	assert.Equal(t, 5, f.group.Queued(m.Namespace(), RoleUpgraderCart))
	assert.Equal(t, 0, f.group.Queued(m.Namespace(), RoleInfluxCart))

	mem := m.Memory()
	require.NotNil(t, mem.PositionCount)
	assert.Equal(t, 8, *mem.PositionCount)
	assert.Equal(t, 5, mem.CartCount)
	require.NotNil(t, mem.TransportAnalysis)
	assert.Equal(t, 25, mem.TransportAnalysis.Distance)
	require.NotNil(t, mem.DistanceToSpawn)
	assert.Equal(t, 19, *mem.DistanceToSpawn)
}

func TestUpgradeMission_UpgraderBodyFitsSpawnEnergy(t *testing.T) {
	tests := []struct {
		name      string
		maxEnergy int
	}{
		{"odd work count at 1325", 1325},
		{"odd work count at 1575", 1575},
		{"even work count at 1300", 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newUpgradeFixtureWithEnergy(t, 4, tt.maxEnergy)
			f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
			m := f.mission()
			require.NoError(t, m.Init(f.tick(3, mission.PhaseInit)))

			// Act
			err := m.RoleCall(f.tick(3, mission.PhaseRoleCall))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 5, f.group.Queued(m.Namespace(), RoleUpgrader))
		})
	}
}

func TestUpgradeMission_HostilesStopSpawning(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	f.w.SetHostiles("W1N1", 2)
	m := f.mission()

	require.NoError(t, m.Init(f.tick(3, mission.PhaseInit)))
	require.NoError(t, m.RoleCall(f.tick(3, mission.PhaseRoleCall)))

	assert.Equal(t, 0, m.Potency())
	assert.Equal(t, 0, f.group.QueueLength())
}

func TestUpgradeMission_ConstructionCapsUpgradersAtOne(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	require.NoError(t, f.w.PlaceConstructionSite(at(15, 15), world.StructureRoad))
	m := f.mission()

	require.NoError(t, m.Init(f.tick(3, mission.PhaseInit)))
	require.NoError(t, m.RoleCall(f.tick(3, mission.PhaseRoleCall)))

	assert.Equal(t, 1, f.group.Queued(m.Namespace(), RoleUpgrader))
}

func TestUpgradeMission_PlacesBatterySiteOnce(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	m := f.mission()

	require.NoError(t, m.Init(f.tick(1, mission.PhaseInit)))
	require.NoError(t, m.Init(f.tick(2, mission.PhaseInit)))

	sites := f.w.ConstructionSites("W1N1")
	require.Len(t, sites, 1)
	assert.Equal(t, world.StructureContainer, sites[0].Type)
	assert.True(t, sites[0].Pos.InRangeTo(at(30, 30), 3))

	mem := m.Memory()
	require.NotNil(t, mem.BatteryPosition)
	assert.Equal(t, sites[0].Pos, *mem.BatteryPosition)
	assert.True(t, f.logger.Contains(common.LevelInfo, "placing battery in alpha, outcome: OK"))
}

func TestUpgradeMission_LinkLevelReplacesContainer(t *testing.T) {
	f := newUpgradeFixture(t, 5)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	m := f.mission()

	require.NoError(t, m.Init(f.tick(1, mission.PhaseInit)))
	_, ok := f.w.StructureAt(at(29, 28), world.StructureContainer)
	assert.False(t, ok)

	require.NoError(t, m.Init(f.tick(2, mission.PhaseInit)))
	sites := f.w.ConstructionSites("W1N1")
	require.Len(t, sites, 1)
	assert.Equal(t, world.StructureLink, sites[0].Type)
}

func TestUpgradeMission_MissingControllerIsMissingTarget(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	op, err := mission.NewOperation("beta", "W5N5", "")
	require.NoError(t, err)
	m := NewUpgradeMission(op, Spec{Type: TypeUpgrade}, Dependencies{World: f.w, SpawnGroup: f.group})

	err = m.Init(f.tick(1, mission.PhaseInit))

	var missing *shared.MissingTargetError
	assert.True(t, errors.As(err, &missing))
}

func TestUpgradeMission_MemorySurvivesInstances(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	first := f.mission()
	require.NoError(t, first.Init(f.tick(1, mission.PhaseInit)))
	require.NoError(t, first.RoleCall(f.tick(1, mission.PhaseRoleCall)))
	require.NoError(t, first.Finalize(f.tick(1, mission.PhaseFinalize)))

	second := f.mission()
	require.NoError(t, second.Init(f.tick(2, mission.PhaseInit)))

	assert.Equal(t, first.Memory().PositionCount, second.Memory().PositionCount)
	assert.Equal(t, first.Memory().TransportAnalysis, second.Memory().TransportAnalysis)
	assert.Equal(t, 1, f.store.Saves)
}

func TestUpgradeMission_InvalidMemoryIsReset(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	f.store.Put("alpha.upgrade", `{"positionCount": -4, "cartCount": 2}`)
	m := f.mission()

	require.NoError(t, m.Init(f.tick(1, mission.PhaseInit)))

	assert.True(t, f.logger.Contains(common.LevelWarning, "resetting mission memory"))
	assert.Equal(t, 0, m.Memory().CartCount)
}

func TestUpgradeMission_InvalidationRates(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	m := f.mission()
	random := shared.NewSeededRandom(42)
	const rounds = 20000

	positionClears, transportClears := 0, 0
	for i := 0; i < rounds; i++ {
		m.memory.PositionCount = intPtr(3)
		m.memory.TransportAnalysis = &logistics.TransportAnalysis{Distance: 25}
		require.NoError(t, m.InvalidateCache(&mission.TickContext{Ctx: context.Background(), Random: random}))
		if m.memory.PositionCount == nil {
			positionClears++
		}
		if m.memory.TransportAnalysis == nil {
			transportClears++
		}
	}

	assert.InDelta(t, 0.01, float64(positionClears)/rounds, 0.004)
	assert.InDelta(t, 0.1, float64(transportClears)/rounds, 0.01)
}

func TestUpgradeMission_PavesPathToBattery(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	m := f.mission()

	require.NoError(t, m.Init(f.tick(1, mission.PhaseInit)))
	require.NoError(t, m.RoleCall(f.tick(1, mission.PhaseRoleCall)))
	require.NoError(t, m.Actions(f.tick(1, mission.PhaseActions)))

	mem := m.Memory()
	assert.NotEmpty(t, mem.RoadSites)
	assert.Nil(t, mem.RoadRepairIDs)
	require.NotNil(t, mem.LastPaveTick)
	assert.Equal(t, uint64(1), *mem.LastPaveTick)
	for _, pos := range mem.RoadSites {
		site, ok := f.w.ConstructionSiteAt(pos)
		require.True(t, ok)
		assert.Equal(t, world.StructureRoad, site.Type)
	}
}

func TestUpgradeMission_PaveAtTickZeroWaitsForInterval(t *testing.T) {
	// Arrange
	f := newUpgradeFixture(t, 4)
	f.w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	m := f.mission()
	require.NoError(t, m.Init(f.tick(0, mission.PhaseInit)))
	require.NoError(t, m.RoleCall(f.tick(0, mission.PhaseRoleCall)))
	require.NoError(t, m.Actions(f.tick(0, mission.PhaseActions)))

	// Act
	require.NoError(t, m.Actions(f.tick(1, mission.PhaseActions)))

	// Assert
	mem := m.Memory()
	require.NotNil(t, mem.LastPaveTick)
	assert.Equal(t, uint64(0), *mem.LastPaveTick)
	assert.False(t, m.paveDue(1))
	assert.True(t, m.paveDue(uint64(max(m.deps.Tuning.PaveInterval, 1))))
}

func TestUpgradeMission_RemoteSpawningStillPaves(t *testing.T) {
	// Arrange
	sc, err := sim.ParseScenario([]byte(`
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: 4}
    storage: {x: 20, y: 20, energy: 5000}
  - name: W2N1
    storage: {x: 20, y: 20, energy: 400000}
    spawns: [{x: 10, y: 10}]
spawn_groups:
  - room: W2N1
    max_spawn_energy: 5000
`))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	group, _ := w.SpawnGroup("W2N1")
	op, err := mission.NewOperation("alpha", "W1N1", "W2N1")
	require.NoError(t, err)
	m := NewUpgradeMission(op, Spec{Type: TypeUpgrade}, Dependencies{World: w, SpawnGroup: group})
	tc := &mission.TickContext{Ctx: context.Background(), Tick: 1, Random: shared.NewSeededRandom(1)}
	require.NoError(t, m.Init(tc))
	require.NoError(t, m.RoleCall(tc))

	// Act
	require.NoError(t, m.Actions(tc))

	// Assert
	mem := m.Memory()
	require.NotNil(t, mem.LastPaveTick)
	assert.Equal(t, uint64(1), *mem.LastPaveTick)
	assert.NotEmpty(t, mem.RoadSites)
	require.NoError(t, m.RoleCall(tc))
	assert.Equal(t, 0, group.Queued(m.Namespace(), RolePaver))
}

func TestUpgradeMission_RemoteSpawningRequestsInflux(t *testing.T) {
	sc, err := sim.ParseScenario([]byte(`
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: 4}
    storage: {x: 20, y: 20, energy: 5000}
  - name: W2N1
    storage: {x: 20, y: 20, energy: 400000}
    spawns: [{x: 10, y: 10}]
spawn_groups:
  - room: W2N1
    max_spawn_energy: 5000
`))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	group, _ := w.SpawnGroup("W2N1")
	op, err := mission.NewOperation("alpha", "W1N1", "W2N1")
	require.NoError(t, err)
	m := NewUpgradeMission(op, Spec{Type: TypeUpgrade}, Dependencies{World: w, SpawnGroup: group})
	tc := &mission.TickContext{Ctx: context.Background(), Tick: 1, Random: shared.NewSeededRandom(1)}

	require.NoError(t, m.Init(tc))
	require.NoError(t, m.RoleCall(tc))

	assert.Equal(t, 10, group.Queued(m.Namespace(), RoleInfluxCart))
	assert.Equal(t, 0, group.Queued(m.Namespace(), RoleUpgrader))
	assert.Nil(t, m.Memory().DistanceToSpawn)
}
