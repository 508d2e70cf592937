package missions

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

var memoryValidator = validator.New()

// UpgradeMemory is the persistent state of an upgrade mission
type UpgradeMemory struct {
	BatteryPosition   *shared.Position             `json:"batteryPosition,omitempty"`
	CartCount         int                          `json:"cartCount" validate:"gte=0"`
	PositionCount     *int                         `json:"positionCount,omitempty" validate:"omitempty,gte=0"`
	RoadRepairIDs     []string                     `json:"roadRepairIds,omitempty"`
	RoadSites         []shared.Position            `json:"roadSites,omitempty"`
	TransportAnalysis *logistics.TransportAnalysis `json:"transportAnalysis,omitempty"`
	Potency           *int                         `json:"potency,omitempty" validate:"omitempty,gte=0"`
	DistanceToSpawn   *int                         `json:"distanceToSpawn,omitempty" validate:"omitempty,gte=0"`
	LastPaveTick      *uint64                      `json:"lastPaveTick,omitempty"`
}

// normalize repairs values a damaged record may hold
func (m *UpgradeMemory) normalize() {
	if m.CartCount < 0 {
		m.CartCount = 0
	}
	if len(m.RoadRepairIDs) == 0 {
		m.RoadRepairIDs = nil
	}
	if len(m.RoadSites) == 0 {
		m.RoadSites = nil
	}
	if m.TransportAnalysis != nil && m.TransportAnalysis.CartsNeeded < 0 {
		m.TransportAnalysis = nil
	}
}

// RemoteUpgradeMemory is the persistent state of a remote upgrade mission
type RemoteUpgradeMemory struct {
	Distance          *int                         `json:"distance,omitempty" validate:"omitempty,gte=0"`
	SpawnDistance     *int                         `json:"spawnDistance,omitempty" validate:"omitempty,gte=0"`
	LocalSource       bool                         `json:"localSource"`
	Max               *int                         `json:"max,omitempty" validate:"omitempty,gte=0"`
	CartCount         int                          `json:"cartCount" validate:"gte=0"`
	TransportAnalysis *logistics.TransportAnalysis `json:"transportAnalysis,omitempty"`
}

func (m *RemoteUpgradeMemory) normalize() {
	if m.CartCount < 0 {
		m.CartCount = 0
	}
}

type normalizer interface {
	normalize()
}

// loadMemory reads a namespace into dst, defaults it and validates it. A record
// that fails validation is logged by the caller and replaced by defaults.
func loadMemory(ctx context.Context, store mission.MemoryStore, namespace string, dst normalizer) error {
	if store == nil {
		dst.normalize()
		return nil
	}
	if _, err := store.Load(ctx, namespace, dst); err != nil {
		return fmt.Errorf("failed to load memory for %s: %w", namespace, err)
	}
	dst.normalize()
	if err := memoryValidator.Struct(dst); err != nil {
		return fmt.Errorf("invalid memory for %s: %w", namespace, err)
	}
	return nil
}

func saveMemory(ctx context.Context, store mission.MemoryStore, namespace string, src interface{}) error {
	if store == nil {
		return nil
	}
	if err := store.Save(ctx, namespace, src); err != nil {
		return fmt.Errorf("failed to save memory for %s: %w", namespace, err)
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
