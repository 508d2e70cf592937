package helpers

import (
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

// MockSpawnGroup is an in-memory SpawnGroup for testing
type MockSpawnGroup struct {
	RoomName  string
	SpawnPos  shared.Position
	MaxEnergy int

	Units     map[string][]*world.Unit // key: namespace|role
	QueuedBy  map[string]int           // key: namespace|role
	Submitted []world.SpawnRequest
	SubmitErr error

	// Capacity makes Submit fail with CapacityExceededError once live+queued reaches it
	Capacity map[string]int
}

// NewMockSpawnGroup creates a mock spawn group in room with a spawn at 25,25
func NewMockSpawnGroup(room string, maxEnergy int) *MockSpawnGroup {
	return &MockSpawnGroup{
		RoomName:  room,
		SpawnPos:  shared.NewPosition(room, 25, 25),
		MaxEnergy: maxEnergy,
		Units:     make(map[string][]*world.Unit),
		QueuedBy:  make(map[string]int),
		Capacity:  make(map[string]int),
	}
}

func key(namespace, role string) string {
	return namespace + "|" + role
}

func (m *MockSpawnGroup) Room() string               { return m.RoomName }
func (m *MockSpawnGroup) Position() shared.Position  { return m.SpawnPos }
func (m *MockSpawnGroup) MaxSpawnEnergy() int        { return m.MaxEnergy }
func (m *MockSpawnGroup) Queued(ns, role string) int { return m.QueuedBy[key(ns, role)] }

// Live returns units registered with AddUnit
func (m *MockSpawnGroup) Live(namespace, role string) []*world.Unit {
	return m.Units[key(namespace, role)]
}

// Submit records the request and bumps the queued count
func (m *MockSpawnGroup) Submit(req world.SpawnRequest) error {
	if m.SubmitErr != nil {
		return m.SubmitErr
	}
	k := key(req.Namespace, req.Role)
	if limit, ok := m.Capacity[k]; ok && len(m.Units[k])+m.QueuedBy[k] >= limit {
		return shared.NewCapacityExceededError(req.Role, limit)
	}
	m.Submitted = append(m.Submitted, req)
	m.QueuedBy[k]++
	return nil
}

// Reassign moves a unit between role buckets
func (m *MockSpawnGroup) Reassign(u *world.Unit, role string) {
	from := key(u.Memory.Namespace, u.Memory.Role)
	kept := m.Units[from][:0]
	for _, other := range m.Units[from] {
		if other != u {
			kept = append(kept, other)
		}
	}
	m.Units[from] = kept
	u.Memory.Role = role
	m.AddUnit(u)
}

// AddUnit registers a live unit under its memory namespace and role
func (m *MockSpawnGroup) AddUnit(u *world.Unit) {
	k := key(u.Memory.Namespace, u.Memory.Role)
	m.Units[k] = append(m.Units[k], u)
}

// SubmittedFor returns the requests recorded for a role
func (m *MockSpawnGroup) SubmittedFor(role string) []world.SpawnRequest {
	var out []world.SpawnRequest
	for _, req := range m.Submitted {
		if req.Role == role {
			out = append(out, req)
		}
	}
	return out
}
