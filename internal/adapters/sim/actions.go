package sim

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

const (
	workRange       = 3
	repairPerWork   = 100
	buildPerWork    = 5
	upgradePerWork  = 1
	repairCostRatio = 100
)

// Actuator

func (w *World) Withdraw(u *world.Unit, target *world.Structure, amount int) error {
	if !u.Pos.IsNearTo(target.Pos) {
		return world.ErrNotInRange
	}
	if target.Energy <= 0 {
		return world.ErrNotEnoughResources
	}
	free := u.FreeCapacity()
	if free <= 0 {
		return world.ErrFull
	}
	if amount > 0 && amount > target.Energy {
		return world.ErrNotEnoughResources
	}
	if amount <= 0 || amount > free {
		amount = free
	}
	amount = min(amount, target.Energy)
	target.Energy -= amount
	u.Carried += amount
	return nil
}

func (w *World) Transfer(u *world.Unit, target *world.Structure) error {
	if !u.Pos.IsNearTo(target.Pos) {
		return world.ErrNotInRange
	}
	if u.Carried <= 0 {
		return world.ErrNotEnoughResources
	}
	space := target.FreeCapacity()
	if space <= 0 {
		return world.ErrFull
	}
	amount := min(space, u.Carried)
	target.Energy += amount
	u.Carried -= amount
	return nil
}

func (w *World) TransferToUnit(u *world.Unit, recipient *world.Unit) error {
	if !u.Pos.IsNearTo(recipient.Pos) {
		return world.ErrNotInRange
	}
	if u.Carried <= 0 {
		return world.ErrNotEnoughResources
	}
	space := recipient.FreeCapacity()
	if space <= 0 {
		return world.ErrFull
	}
	amount := min(space, u.Carried)
	recipient.Carried += amount
	u.Carried -= amount
	return nil
}

func (w *World) Repair(u *world.Unit, target *world.Structure) error {
	if !u.Pos.InRangeTo(target.Pos, workRange) {
		return world.ErrNotInRange
	}
	if u.Body.Work == 0 {
		return world.ErrInvalidTarget
	}
	if u.Carried <= 0 {
		return world.ErrNotEnoughResources
	}
	hits := min(u.Body.Work*repairPerWork, target.HitsMax-target.Hits)
	if hits <= 0 {
		return nil
	}
	cost := (hits + repairCostRatio - 1) / repairCostRatio
	if cost > u.Carried {
		cost = u.Carried
		hits = cost * repairCostRatio
	}
	target.Hits = min(target.Hits+hits, target.HitsMax)
	u.Carried -= cost
	return nil
}

func (w *World) Upgrade(u *world.Unit, c *world.Controller) error {
	if !u.Pos.InRangeTo(c.Pos, workRange) {
		return world.ErrNotInRange
	}
	if u.Body.Work == 0 {
		return world.ErrInvalidTarget
	}
	if u.Carried <= 0 {
		return world.ErrNotEnoughResources
	}
	amount := min(u.Body.Work*upgradePerWork, u.Carried)
	u.Carried -= amount
	w.stats.EnergyUpgraded += amount
	if c.AtMaxLevel() {
		return nil
	}
	c.Progress += amount
	for !c.AtMaxLevel() && c.ProgressTotal > 0 && c.Progress >= c.ProgressTotal {
		c.Progress -= c.ProgressTotal
		c.Level++
		c.ProgressTotal = controllerProgressTotal[c.Level]
	}
	return nil
}

func (w *World) Build(u *world.Unit, site *world.ConstructionSite) error {
	if !u.Pos.InRangeTo(site.Pos, workRange) {
		return world.ErrNotInRange
	}
	if u.Body.Work == 0 {
		return world.ErrInvalidTarget
	}
	if u.Carried <= 0 {
		return world.ErrNotEnoughResources
	}
	progress := min(u.Body.Work*buildPerWork, u.Carried, site.ProgressTotal-site.Progress)
	site.Progress += progress
	u.Carried -= progress
	if site.Progress >= site.ProgressTotal {
		w.completeSite(site)
	}
	return nil
}

func (w *World) Retire(u *world.Unit) error {
	if _, ok := w.units[u.ID]; !ok {
		return world.ErrInvalidTarget
	}
	delete(w.units, u.ID)
	delete(w.transit, u.ID)
	w.stats.UnitsRetired++
	return nil
}

// Constructor

func (w *World) PlaceConstructionSite(pos shared.Position, t world.StructureType) error {
	if _, known := buildCostByType[t]; !known {
		return world.ErrInvalidTarget
	}
	if w.walls[pos] || pos.IsNearExit(0) {
		return world.ErrPositionUnavailable
	}
	if _, ok := w.ConstructionSiteAt(pos); ok {
		return world.ErrPositionUnavailable
	}
	for _, s := range w.structures {
		if s.Pos != pos {
			continue
		}
		// roads share tiles with containers
		if s.Type == t || !(s.Type == world.StructureRoad || t == world.StructureRoad) {
			return world.ErrPositionUnavailable
		}
	}
	site := &world.ConstructionSite{
		ID:            w.newID("site"),
		Type:          t,
		Pos:           pos,
		ProgressTotal: buildCostByType[t],
	}
	w.sites[site.ID] = site
	return nil
}

func (w *World) Destroy(s *world.Structure) error {
	if _, ok := w.structures[s.ID]; !ok {
		return world.ErrInvalidTarget
	}
	delete(w.structures, s.ID)
	return nil
}

func (w *World) completeSite(site *world.ConstructionSite) {
	delete(w.sites, site.ID)
	w.addStructure(site.Pos.Room, StructureSpec{Type: string(site.Type), X: site.Pos.X, Y: site.Pos.Y})
	w.stats.SitesCompleted++
}
