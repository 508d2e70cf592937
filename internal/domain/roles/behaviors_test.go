package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/domain/roles"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const room = "W1N1"

func at(x, y int) shared.Position { return shared.NewPosition(room, x, y) }

func newWorld(t *testing.T) *sim.World {
	t.Helper()
	sc, err := sim.ParseScenario([]byte(`
rooms:
  - name: W1N1
    controller: {x: 30, y: 30, level: 4}
    storage: {x: 20, y: 20, energy: 100000}
    spawns: [{x: 10, y: 10}]
  - name: W2N1
    storage: {x: 20, y: 20, energy: 300000}
spawn_groups:
  - room: W1N1
    max_spawn_energy: 1300
`))
	require.NoError(t, err)
	w, err := sim.NewWorld(sc)
	require.NoError(t, err)
	return w
}

func TestUpgrader_RepairsDamagedBatteryBeforeUpgrading(t *testing.T) {
	// Arrange: container at 70% health within reach
	w := newWorld(t)
	battery := w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	battery.Hits = battery.HitsMax * 7 / 10
	controller, _ := w.Controller(room)
	stand := at(29, 29)
	u := w.AddUnit(stand, sim.UnitSpec{Role: "upgrader", Work: 5, Carry: 2, Move: 3, Carried: 80})
	hitsBefore := battery.Hits

	// Act
	out := roles.Upgrader(w, u, roles.UpgraderAssignment{Controller: controller, Battery: battery, Position: &stand})

	// Assert
	assert.True(t, out.Did(roles.ActionRepair))
	assert.False(t, out.Attempted(roles.ActionUpgrade))
	assert.Greater(t, battery.Hits, hitsBefore)
	assert.Equal(t, 0, controller.Progress)
}

func TestUpgrader_HealthyBatteryUpgrades(t *testing.T) {
	w := newWorld(t)
	battery := w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	controller, _ := w.Controller(room)
	stand := at(29, 29)
	u := w.AddUnit(stand, sim.UnitSpec{Role: "upgrader", Work: 5, Carry: 2, Move: 3, Carried: 100})

	out := roles.Upgrader(w, u, roles.UpgraderAssignment{Controller: controller, Battery: battery, Position: &stand})

	assert.True(t, out.Did(roles.ActionUpgrade))
	assert.False(t, out.Attempted(roles.ActionRepair))
	assert.Equal(t, 5, controller.Progress)
	assert.Equal(t, roles.Delivering, out.State)
}

func TestUpgrader_WithdrawsBelowQuarter(t *testing.T) {
	w := newWorld(t)
	battery := w.AddStructure(at(29, 28), world.StructureContainer, 1000)
	controller, _ := w.Controller(room)
	stand := at(29, 29)
	u := w.AddUnit(stand, sim.UnitSpec{Role: "upgrader", Work: 5, Carry: 2, Move: 3, Carried: 20})

	out := roles.Upgrader(w, u, roles.UpgraderAssignment{Controller: controller, Battery: battery, Position: &stand})

	assert.True(t, out.Did(roles.ActionUpgrade))
	assert.True(t, out.Did(roles.ActionWithdraw))
	assert.Equal(t, 100, u.Carried)
}

func TestUpgrader_MissingBatteryIdles(t *testing.T) {
	w := newWorld(t)
	controller, _ := w.Controller(room)
	u := w.AddUnit(at(29, 29), sim.UnitSpec{Role: "upgrader", Work: 1, Carry: 1, Move: 1})

	out := roles.Upgrader(w, u, roles.UpgraderAssignment{Controller: controller, Rally: at(29, 29)})

	assert.Equal(t, roles.Idle, out.State)
	assert.False(t, out.Attempted(roles.ActionUpgrade))
}

func TestSupplyCart_ProcuresThenDelivers(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	battery := w.AddStructure(at(23, 20), world.StructureContainer, 0)
	u := w.AddUnit(at(21, 20), sim.UnitSpec{Role: "upgraderCart", Carry: 4, Move: 2})
	a := roles.SupplyCartAssignment{Battery: battery, Supply: storage}

	first := roles.SupplyCart(w, u, a)
	assert.True(t, first.Did(roles.ActionWithdraw))
	assert.Equal(t, 200, u.Carried)

	u.Pos = at(22, 20)
	second := roles.SupplyCart(w, u, a)
	assert.Equal(t, roles.Delivering, second.State)
	assert.True(t, second.Did(roles.ActionTransfer))
	assert.Equal(t, 200, battery.Energy)
}

func TestSupplyCart_FullBatteryYields(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	battery := w.AddStructure(at(23, 20), world.StructureContainer, 2000)
	u := w.AddUnit(at(24, 20), sim.UnitSpec{Role: "upgraderCart", Carry: 4, Move: 2, Carried: 200})

	out := roles.SupplyCart(w, u, roles.SupplyCartAssignment{Battery: battery, Supply: storage})

	assert.False(t, out.Attempted(roles.ActionTransfer))
	assert.Equal(t, 200, u.Carried)
}

func TestInfluxCart_MissingOriginIsTransient(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	u := w.AddUnit(at(25, 25), sim.UnitSpec{Role: "influxCart", Carry: 25, Move: 25, OriginID: "storage-gone"})

	out, err := roles.InfluxCart(w, u, roles.InfluxCartAssignment{Destination: storage})

	var transient *shared.TransientQueryFailure
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, "storage-gone", transient.ID)
	assert.Equal(t, roles.Idle, out.State)
}

func TestInfluxCart_WithdrawsFromOrigin(t *testing.T) {
	w := newWorld(t)
	destination, _ := w.Storage(room)
	origin, _ := w.Storage("W2N1")
	u := w.AddUnit(shared.NewPosition("W2N1", 21, 21), sim.UnitSpec{Role: "influxCart", Carry: 25, Move: 25, OriginID: origin.ID})

	out, err := roles.InfluxCart(w, u, roles.InfluxCartAssignment{Destination: destination})

	require.NoError(t, err)
	assert.True(t, out.Did(roles.ActionWithdraw))
	assert.Equal(t, 1250, u.Carried)
}

func TestRemoteCart_RetiresWhenTooOldForAnotherTrip(t *testing.T) {
	// Arrange: distance 40, margin 50 -> retire below 130 ticks
	w := newWorld(t)
	storage, _ := w.Storage(room)
	container := w.AddStructure(at(30, 28), world.StructureContainer, 0)
	u := w.AddUnit(at(30, 27), sim.UnitSpec{Role: "cart", Carry: 4, Move: 2, Carried: 200, TTL: 120})
	inbound := &roles.Inbound{}

	// Act
	out := roles.RemoteCart(w, u, roles.RemoteCartAssignment{
		Source: storage, Container: container, Inbound: inbound, Distance: 40, RetirementMargin: 50,
	})

	// Assert
	assert.True(t, out.Did(roles.ActionTransfer))
	assert.True(t, out.Did(roles.ActionRetire))
	assert.Empty(t, w.Units())
	assert.Equal(t, 200, inbound.Energy)
}

func TestRemoteCart_YoungCartReturnsToSource(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	container := w.AddStructure(at(30, 28), world.StructureContainer, 0)
	u := w.AddUnit(at(30, 27), sim.UnitSpec{Role: "cart", Carry: 4, Move: 2, Carried: 200, TTL: 1000})

	out := roles.RemoteCart(w, u, roles.RemoteCartAssignment{
		Source: storage, Container: container, Inbound: &roles.Inbound{}, Distance: 40, RetirementMargin: 50,
	})

	assert.True(t, out.Did(roles.ActionTransfer))
	assert.False(t, out.Attempted(roles.ActionRetire))
	assert.Len(t, w.Units(), 1)
}

func TestRemoteCart_FullCartWaitsWhenEnoughInbound(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	container := w.AddStructure(at(30, 28), world.StructureContainer, 1000)
	first := w.AddUnit(at(30, 26), sim.UnitSpec{Role: "cart", Carry: 10, Move: 5, Carried: 500})
	second := w.AddUnit(at(31, 26), sim.UnitSpec{Role: "cart", Carry: 10, Move: 5, Carried: 500})
	inbound := &roles.Inbound{}
	a := roles.RemoteCartAssignment{Source: storage, Container: container, Inbound: inbound, Distance: 40, RetirementMargin: 50}

	roles.RemoteCart(w, first, a)
	out := roles.RemoteCart(w, second, a)

	assert.Equal(t, 1500, inbound.Energy)
	assert.False(t, out.Attempted(roles.ActionTransfer))
	assert.Equal(t, 500, second.Carried)
}

func TestRemoteCart_DeliversToBuilderBeforeContainerExists(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	builder := w.AddUnit(at(30, 27), sim.UnitSpec{Role: "builder", Work: 1, Carry: 3, Move: 1})
	cart := w.AddUnit(at(30, 26), sim.UnitSpec{Role: "cart", Carry: 2, Move: 1, Carried: 100, TTL: 1000})

	out := roles.RemoteCart(w, cart, roles.RemoteCartAssignment{Source: storage, Builder: builder, Distance: 10})

	assert.True(t, out.Did(roles.ActionTransfer))
	assert.Equal(t, 100, builder.Carried)
}

func TestBuilder_PavesOwnTileFirst(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.PlaceConstructionSite(at(30, 28), world.StructureContainer))
	site, _ := w.ConstructionSiteAt(at(30, 28))
	u := w.AddUnit(at(26, 26), sim.UnitSpec{Role: "builder", Work: 1, Carry: 3, Move: 1, Carried: 150})

	out := roles.Builder(w, u, roles.BuilderAssignment{Site: site})

	assert.True(t, out.Did(roles.ActionPlaceSite))
	_, placed := w.ConstructionSiteAt(at(26, 26))
	assert.True(t, placed)
}

func TestBuilder_BuildsWhenRoadIsHealthy(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.PlaceConstructionSite(at(30, 28), world.StructureContainer))
	site, _ := w.ConstructionSiteAt(at(30, 28))
	w.AddStructure(at(30, 27), world.StructureRoad, 0)
	u := w.AddUnit(at(30, 27), sim.UnitSpec{Role: "builder", Work: 1, Carry: 3, Move: 1, Carried: 150})

	out := roles.Builder(w, u, roles.BuilderAssignment{Site: site})

	assert.True(t, out.Did(roles.ActionBuild))
	assert.Equal(t, 5, site.Progress)
}

func TestBuilder_SwapsRoleWhenSiteIsGone(t *testing.T) {
	w := newWorld(t)
	group, _ := w.SpawnGroup(room)
	u := w.AddUnit(at(30, 27), sim.UnitSpec{Role: "builder", Namespace: "alpha.remote_upgrade", Work: 1, Carry: 3, Move: 1})

	out := roles.Builder(w, u, roles.BuilderAssignment{Group: group, NextRole: "upgrade"})

	assert.True(t, out.Did(roles.ActionReassign))
	assert.Equal(t, "upgrade", u.Role())
	assert.Len(t, group.Live("alpha.remote_upgrade", "upgrade"), 1)
}

func TestRemoteUpgrader_TakesQuickLoadFromLocalStorage(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	u := w.AddUnit(at(21, 21), sim.UnitSpec{Role: "upgrade", Work: 7, Carry: 4, Move: 4})

	out := roles.RemoteUpgrader(w, u, roles.RemoteUpgraderAssignment{LocalStorage: storage, Target: at(30, 28)})

	assert.True(t, out.Did(roles.ActionWithdraw))
	assert.Equal(t, roles.QuickLoad, u.Carried)
	assert.True(t, u.Memory.HasLoad)
}

func TestRemoteUpgrader_StandingUnitRepairsDamagedContainer(t *testing.T) {
	w := newWorld(t)
	container := w.AddStructure(at(30, 28), world.StructureContainer, 500)
	container.Hits = container.HitsMax / 2
	controller, _ := w.Controller(room)
	stand := at(29, 28)
	u := w.AddUnit(stand, sim.UnitSpec{Role: "upgrade", Work: 7, Carry: 4, Move: 4, Carried: 150})

	out := roles.RemoteUpgrader(w, u, roles.RemoteUpgraderAssignment{
		Positions: true, Position: &stand, Container: container, Controller: controller, Target: at(30, 28),
	})

	assert.True(t, out.Did(roles.ActionRepair))
	assert.False(t, out.Attempted(roles.ActionWithdraw))
}

func TestPaver_RepairsRecordedRoad(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	road := w.AddStructure(at(24, 24), world.StructureRoad, 0)
	road.Hits = 1000
	u := w.AddUnit(at(23, 23), sim.UnitSpec{Role: "paver", Work: 2, Carry: 2, Move: 2, Carried: 100})

	out := roles.Paver(w, u, roles.PaverAssignment{RoadRepairIDs: []string{"road-missing", road.ID}, Supply: storage})

	assert.True(t, out.Did(roles.ActionRepair))
	assert.Equal(t, 1200, road.Hits)
}

func TestPaver_BuildsRecordedRoadSite(t *testing.T) {
	w := newWorld(t)
	storage, _ := w.Storage(room)
	require.NoError(t, w.PlaceConstructionSite(at(24, 24), world.StructureRoad))
	u := w.AddUnit(at(23, 23), sim.UnitSpec{Role: "paver", Work: 2, Carry: 2, Move: 2, Carried: 100})

	out := roles.Paver(w, u, roles.PaverAssignment{RoadSites: []shared.Position{at(24, 24)}, Supply: storage})

	assert.True(t, out.Did(roles.ActionBuild))
}

func TestPaver_IdlesWithNothingToDo(t *testing.T) {
	w := newWorld(t)
	u := w.AddUnit(at(23, 23), sim.UnitSpec{Role: "paver", Work: 2, Carry: 2, Move: 2, Carried: 100})

	out := roles.Paver(w, u, roles.PaverAssignment{RoadSites: []shared.Position{at(24, 24)}, Rally: at(30, 30)})

	assert.Equal(t, roles.Idle, out.State)
	assert.False(t, out.Attempted(roles.ActionBuild))
}
