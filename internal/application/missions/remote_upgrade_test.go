package missions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/test/helpers"
)

const remoteScenario = `
markers:
  alpha_target: {room: W2N1, x: 24, y: 24}
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: 6}
    storage: {x: 20, y: 14, energy: 300000}
    spawns: [{x: 10, y: 10}]
  - name: W2N1
    controller: {x: 25, y: 25, level: 3}
    storage: {x: 20, y: 20, energy: %d}
spawn_groups:
  - room: W1N1
    max_spawn_energy: 1300
`

type remoteFixture struct {
	w     *sim.World
	group *sim.SpawnGroup
	store *helpers.MockMemoryStore
	op    *mission.Operation
}

func newRemoteFixture(t *testing.T, targetStorage int) *remoteFixture {
	t.Helper()
	sc, err := sim.ParseScenario([]byte(fmt.Sprintf(remoteScenario, targetStorage)))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	group, ok := w.SpawnGroup("W1N1")
	require.True(t, ok)
	op, err := mission.NewOperation("alpha", "W1N1", "")
	require.NoError(t, err)
	return &remoteFixture{w: w, group: group, store: helpers.NewMockMemoryStore(), op: op}
}

func (f *remoteFixture) mission(spec Spec) *RemoteUpgradeMission {
	spec.Type = TypeRemoteUpgrade
	return NewRemoteUpgradeMission(f.op, spec, Dependencies{World: f.w, SpawnGroup: f.group, Store: f.store})
}

func remoteTick(tick uint64) *mission.TickContext {
	return &mission.TickContext{Ctx: context.Background(), Tick: tick, Random: shared.NewSeededRandom(int64(tick))}
}

func target(x, y int) shared.Position { return shared.NewPosition("W2N1", x, y) }

func TestRemoteUpgrade_PlacesContainerSiteAndSpawnsBuilder(t *testing.T) {
	// Arrange
	f := newRemoteFixture(t, 1000)
	m := f.mission(Spec{})

	// Act
	require.NoError(t, m.Init(remoteTick(1)))
	require.NoError(t, m.RoleCall(remoteTick(1)))

	// Assert
	site, ok := f.w.ConstructionSiteAt(target(24, 24))
	require.True(t, ok)
	assert.Equal(t, world.StructureContainer, site.Type)
	assert.Nil(t, m.Positions())
	assert.Equal(t, 1, f.group.Queued(m.Namespace(), RoleRemoteCart))
	assert.Equal(t, 1, f.group.Queued(m.Namespace(), RoleRemoteBuilder))
	assert.Equal(t, 0, f.group.Queued(m.Namespace(), RoleRemoteUpgrader))
}

func TestRemoteUpgrade_UpgradersFillStandingPositions(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	f.w.AddStructure(target(24, 24), world.StructureContainer, 0)
	m := f.mission(Spec{})

	require.NoError(t, m.Init(remoteTick(1)))
	require.NoError(t, m.RoleCall(remoteTick(1)))

	// seven open neighbours reach the controller, plus the container tile
	require.Len(t, m.Positions(), 8)
	assert.Equal(t, target(24, 24), m.Positions()[7])
	assert.Equal(t, 8, f.group.Queued(m.Namespace(), RoleRemoteUpgrader))
	assert.Equal(t, 0, f.group.Queued(m.Namespace(), RoleRemoteBuilder))
	assert.Equal(t, 0, f.group.Queued(m.Namespace(), RoleRemoteCart))
}

func TestRemoteUpgrade_MaxOverride(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	f.w.AddStructure(target(24, 24), world.StructureContainer, 0)
	two := 2
	m := f.mission(Spec{Max: &two})

	require.NoError(t, m.Init(remoteTick(1)))
	require.NoError(t, m.RoleCall(remoteTick(1)))

	assert.Equal(t, 2, f.group.Queued(m.Namespace(), RoleRemoteUpgrader))
}

func TestRemoteUpgrade_HostilesStopUpgraders(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	f.w.AddStructure(target(24, 24), world.StructureContainer, 0)
	f.w.SetHostiles("W2N1", 1)
	m := f.mission(Spec{})

	require.NoError(t, m.Init(remoteTick(1)))
	require.NoError(t, m.RoleCall(remoteTick(1)))

	assert.Equal(t, 0, f.group.Queued(m.Namespace(), RoleRemoteUpgrader))
}

func TestRemoteUpgrade_MissingTargetConditions(t *testing.T) {
	t.Run("no vision", func(t *testing.T) {
		f := newRemoteFixture(t, 1000)
		f.w.SetVision("W2N1", false)
		m := f.mission(Spec{})

		err := m.Init(remoteTick(1))

		var missing *shared.MissingTargetError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "vision of W2N1", missing.Target)
	})

	t.Run("no marker", func(t *testing.T) {
		f := newRemoteFixture(t, 1000)
		op, err := mission.NewOperation("beta", "W1N1", "")
		require.NoError(t, err)
		m := NewRemoteUpgradeMission(op, Spec{Type: TypeRemoteUpgrade}, Dependencies{World: f.w, SpawnGroup: f.group})

		err = m.Init(remoteTick(1))

		var missing *shared.MissingTargetError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "beta_target", missing.Target)
	})
}

func TestRemoteUpgrade_SwitchesToLocalSource(t *testing.T) {
	f := newRemoteFixture(t, 50000)
	m := f.mission(Spec{})

	require.NoError(t, m.Init(remoteTick(1)))
	require.NotNil(t, m.Memory().Distance)
	assert.False(t, m.Memory().LocalSource)
	assert.Equal(t, 50, *m.Memory().Distance)

	local, ok := f.w.Storage("W2N1")
	require.True(t, ok)
	local.Energy = 150000
	require.NoError(t, m.Init(remoteTick(2)))

	mem := m.Memory()
	assert.True(t, mem.LocalSource)
	require.NotNil(t, mem.Distance)
	assert.Equal(t, 4, *mem.Distance)

	// the switch is permanent
	local.Energy = 10
	require.NoError(t, m.Init(remoteTick(3)))
	assert.True(t, m.Memory().LocalSource)
}

func TestRemoteUpgrade_DistanceInvalidationRate(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	m := f.mission(Spec{})
	random := shared.NewSeededRandom(7)
	const rounds = 20000

	clears := 0
	for i := 0; i < rounds; i++ {
		m.memory.Distance = intPtr(40)
		require.NoError(t, m.InvalidateCache(&mission.TickContext{Ctx: context.Background(), Random: random}))
		if m.memory.Distance == nil {
			clears++
		}
	}

	assert.InDelta(t, 0.1, float64(clears)/rounds, 0.01)
}

func TestRemoteUpgrade_CartsFeedBuilderBeforeContainer(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	m := f.mission(Spec{})
	require.NoError(t, m.Init(remoteTick(1)))

	builder := f.w.AddUnit(target(23, 23), sim.UnitSpec{Namespace: m.Namespace(), Role: RoleRemoteBuilder, Work: 2, Carry: 4, Move: 2})
	cart := f.w.AddUnit(target(22, 23), sim.UnitSpec{Namespace: m.Namespace(), Role: RoleRemoteCart, Carry: 4, Move: 2, Carried: 200})

	require.NoError(t, m.RoleCall(remoteTick(1)))
	require.NoError(t, m.Actions(remoteTick(1)))

	assert.Equal(t, 200, builder.Carried)
	assert.Equal(t, 0, cart.Carried)
}

func TestRemoteUpgrade_NamespacesAreIsolated(t *testing.T) {
	f := newRemoteFixture(t, 1000)
	first := f.mission(Spec{})
	second := f.mission(Spec{Name: "remote_b"})
	f.w.AddUnit(target(10, 10), sim.UnitSpec{Namespace: first.Namespace(), Role: RoleRemoteCart, Carry: 2, Move: 1})

	require.NoError(t, first.Init(remoteTick(1)))
	require.NoError(t, second.Init(remoteTick(1)))
	require.NoError(t, first.RoleCall(remoteTick(1)))
	require.NoError(t, second.RoleCall(remoteTick(1)))

	assert.NotEqual(t, first.Namespace(), second.Namespace())
	assert.Equal(t, 0, f.group.Queued(first.Namespace(), RoleRemoteCart))
	assert.Equal(t, 1, f.group.Queued(second.Namespace(), RoleRemoteCart))
}

func TestRemoteUpgrade_LongRangeUpgraderFitsSpawnEnergy(t *testing.T) {
	// Arrange
	sc, err := sim.ParseScenario([]byte(`
markers:
  alpha_target: {room: W5N1, x: 24, y: 24}
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: 6}
    storage: {x: 20, y: 14, energy: 300000}
    spawns: [{x: 10, y: 10}]
  - name: W5N1
    controller: {x: 25, y: 25, level: 3}
    storage: {x: 20, y: 20, energy: 1000}
spawn_groups:
  - room: W1N1
    max_spawn_energy: 1300
`))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	group, ok := w.SpawnGroup("W1N1")
	require.True(t, ok)
	w.AddStructure(shared.NewPosition("W5N1", 24, 24), world.StructureContainer, 0)
	op, err := mission.NewOperation("alpha", "W1N1", "")
	require.NoError(t, err)
	m := NewRemoteUpgradeMission(op, Spec{Type: TypeRemoteUpgrade}, Dependencies{World: w, SpawnGroup: group, Store: helpers.NewMockMemoryStore()})
	require.NoError(t, m.Init(remoteTick(1)))

	// Act
	err = m.RoleCall(remoteTick(1))

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, group.Queued(m.Namespace(), RoleRemoteUpgrader))
	assert.Equal(t, len(m.Positions()), group.Queued(m.Namespace(), RoleRemoteUpgrader))
}

func TestLongRangeUpgraderBody(t *testing.T) {
	// 7W/4C/7M costs 1250, one more pair would cost 1400
	assert.Equal(t, world.Body{Work: 7, Carry: 4, Move: 7}, longRangeUpgraderBody(1300))
	assert.Equal(t, longRangePotencyPerUpgrader, longRangeUpgraderBody(5600).Work)
}
