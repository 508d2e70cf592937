package workforce

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// BodyFunc returns the body a new unit of the role should get
type BodyFunc func() world.Body

// MaxFunc returns the desired number of units of the role
type MaxFunc func() int

// NameFunc generates a unit name for a namespace and role
type NameFunc func(namespace, role string) string

// Options tunes one headcount call
type Options struct {
	// PrespawnLeadTime is how many ticks before expiry a replacement is requested
	PrespawnLeadTime int

	// Memory is copied into the new unit's memory; role and namespace are overwritten
	Memory world.UnitMemory

	// MoveToTarget marks the new unit to travel to the mission's target on spawn
	MoveToTarget bool

	// Boosts lists the enhancements the unit should receive before working
	Boosts []string

	// AllowUnboosted lets the unit work when boosts are unavailable
	AllowUnboosted bool
}

// Result reports what a headcount call observed and did
type Result struct {
	Units     []*world.Unit
	Counted   int
	Queued    int
	Desired   int
	Requested int
}

// Planner reconciles desired role counts against one spawn group
type Planner struct {
	group     world.SpawnGroup
	namespace string
	namer     NameFunc
}

// NewPlanner creates a planner for the missions namespace
func NewPlanner(group world.SpawnGroup, namespace string, namer NameFunc) *Planner {
	if namer == nil {
		namer = func(namespace, role string) string { return namespace + "-" + role }
	}
	return &Planner{group: group, namespace: namespace, namer: namer}
}

// HeadCount returns the live units of role and submits exactly enough spawn
// requests for live+queued to reach the desired maximum. Units whose remaining
// lifetime is within lead time plus their own spawn duration no longer count,
// so their replacement is requested before they expire. A CapacityExceededError
// from the spawn group ends the call without error.
func (p *Planner) HeadCount(role string, body BodyFunc, desired MaxFunc, opts Options) (Result, error) {
	units := p.group.Live(p.namespace, role)
	result := Result{
		Units:   units,
		Counted: CountActive(units, opts.PrespawnLeadTime),
		Queued:  p.group.Queued(p.namespace, role),
		Desired: desired(),
	}

	deficit := SpawnDeficit(result.Desired, result.Counted, result.Queued)
	if deficit == 0 {
		return result, nil
	}

	unitBody := body()
	if err := unitBody.Validate(); err != nil {
		return result, fmt.Errorf("invalid body for role %s: %w", role, err)
	}

	for i := 0; i < deficit; i++ {
		req := p.buildRequest(role, unitBody, opts)
		if err := p.group.Submit(req); err != nil {
			var capacityErr *shared.CapacityExceededError
			if errors.As(err, &capacityErr) {
				return result, nil
			}
			return result, fmt.Errorf("failed to submit spawn request for role %s: %w", role, err)
		}
		result.Requested++
	}

	return result, nil
}

func (p *Planner) buildRequest(role string, body world.Body, opts Options) world.SpawnRequest {
	memory := opts.Memory
	memory.Role = role
	memory.Namespace = p.namespace
	memory.MoveToTarget = opts.MoveToTarget
	if len(opts.Boosts) > 0 {
		memory.Boosts = append([]string(nil), opts.Boosts...)
		memory.AllowUnboosted = opts.AllowUnboosted
	}

	return world.SpawnRequest{
		Namespace: p.namespace,
		Role:      role,
		Name:      p.namer(p.namespace, role),
		Body:      body,
		Memory:    memory,
		LeadTime:  opts.PrespawnLeadTime,
	}
}

// CountActive counts units that will outlive the replacement window
func CountActive(units []*world.Unit, leadTime int) int {
	count := 0
	for _, u := range units {
		if u.Spawning || u.TicksToLive > leadTime+u.Body.SpawnDuration() {
			count++
		}
	}
	return count
}

// SpawnDeficit returns how many requests bring counted+queued up to desired
func SpawnDeficit(desired, counted, queued int) int {
	deficit := desired - counted - queued
	if deficit < 0 {
		return 0
	}
	return deficit
}
