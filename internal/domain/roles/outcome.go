package roles

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// ActionKind names a unit action issued by a behavior
type ActionKind string

const (
	ActionWithdraw  ActionKind = "withdraw"
	ActionTransfer  ActionKind = "transfer"
	ActionRepair    ActionKind = "repair"
	ActionUpgrade   ActionKind = "upgrade"
	ActionBuild     ActionKind = "build"
	ActionPlaceSite ActionKind = "place_site"
	ActionMove      ActionKind = "move"
	ActionRetire    ActionKind = "retire"
	ActionReassign  ActionKind = "reassign"
)

// Action is one call a behavior made this tick
type Action struct {
	Kind   ActionKind
	Target string
	Pos    shared.Position
	Err    error
}

// Outcome is what a behavior decided and did for one unit this tick
type Outcome struct {
	State   LoadState
	Actions []Action
}

// Did returns true if an action of kind was issued and succeeded
func (o Outcome) Did(kind ActionKind) bool {
	for _, a := range o.Actions {
		if a.Kind == kind && a.Err == nil {
			return true
		}
	}
	return false
}

// Attempted returns true if an action of kind was issued at all
func (o Outcome) Attempted(kind ActionKind) bool {
	for _, a := range o.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// actor issues world calls for one unit and records them in the outcome
type actor struct {
	w   world.World
	u   *world.Unit
	out *Outcome
}

func newActor(w world.World, u *world.Unit) *actor {
	return &actor{w: w, u: u, out: &Outcome{}}
}

func (a *actor) record(kind ActionKind, target string, pos shared.Position, err error) error {
	a.out.Actions = append(a.out.Actions, Action{Kind: kind, Target: target, Pos: pos, Err: err})
	return err
}

func (a *actor) withdraw(s *world.Structure, amount int) error {
	return a.record(ActionWithdraw, s.ID, s.Pos, a.w.Withdraw(a.u, s, amount))
}

func (a *actor) transfer(s *world.Structure) error {
	return a.record(ActionTransfer, s.ID, s.Pos, a.w.Transfer(a.u, s))
}

func (a *actor) transferToUnit(recipient *world.Unit) error {
	return a.record(ActionTransfer, recipient.ID, recipient.Pos, a.w.TransferToUnit(a.u, recipient))
}

func (a *actor) repair(s *world.Structure) error {
	return a.record(ActionRepair, s.ID, s.Pos, a.w.Repair(a.u, s))
}

func (a *actor) upgrade(c *world.Controller) error {
	return a.record(ActionUpgrade, c.ID, c.Pos, a.w.Upgrade(a.u, c))
}

func (a *actor) build(site *world.ConstructionSite) error {
	return a.record(ActionBuild, site.ID, site.Pos, a.w.Build(a.u, site))
}

func (a *actor) placeSite(pos shared.Position, t world.StructureType) error {
	return a.record(ActionPlaceSite, string(t), pos, a.w.PlaceConstructionSite(pos, t))
}

func (a *actor) retire() error {
	return a.record(ActionRetire, a.u.ID, a.u.Pos, a.w.Retire(a.u))
}

func (a *actor) moveTo(target shared.Position, opts world.MoveOptions) world.MoveResult {
	res := a.w.MoveToward(a.u, target, opts)
	a.record(ActionMove, "", target, nil)
	return res
}

func (a *actor) finish(state LoadState) Outcome {
	a.out.State = state
	return *a.out
}
