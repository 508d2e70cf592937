package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// MissionMemoryRecord is one stored namespace
type MissionMemoryRecord struct {
	Namespace   string
	Operation   string
	Data        []byte
	UpdatedTick uint64
	UpdatedAt   time.Time
}

// MissionMemoryRepository persists raw mission memory by namespace
type MissionMemoryRepository interface {
	// Get returns the stored record, or nil when the namespace was never saved
	Get(ctx context.Context, namespace string) (*MissionMemoryRecord, error)

	// Put upserts a record
	Put(ctx context.Context, record MissionMemoryRecord) error

	// List returns every record whose namespace starts with prefix, ordered by namespace
	List(ctx context.Context, prefix string) ([]MissionMemoryRecord, error)

	// Delete removes a namespace
	Delete(ctx context.Context, namespace string) error
}

// GormMissionMemoryRepository implements MissionMemoryRepository using GORM
type GormMissionMemoryRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormMissionMemoryRepository creates a new GORM-based mission memory repository.
// If clock is nil, uses RealClock.
func NewGormMissionMemoryRepository(db *gorm.DB, clock shared.Clock) *GormMissionMemoryRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormMissionMemoryRepository{db: db, clock: clock}
}

func (r *GormMissionMemoryRepository) Get(ctx context.Context, namespace string) (*MissionMemoryRecord, error) {
	var model MissionMemoryModel
	err := r.db.WithContext(ctx).Where("namespace = ?", namespace).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mission memory %s: %w", namespace, err)
	}
	record := r.toRecord(model)
	return &record, nil
}

func (r *GormMissionMemoryRepository) Put(ctx context.Context, record MissionMemoryRecord) error {
	if record.Namespace == "" {
		return shared.NewValidationError("namespace", "namespace is required")
	}
	model := r.toModel(record)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"operation", "data", "updated_tick", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to put mission memory %s: %w", record.Namespace, err)
	}
	return nil
}

func (r *GormMissionMemoryRepository) List(ctx context.Context, prefix string) ([]MissionMemoryRecord, error) {
	var models []MissionMemoryModel
	if err := r.db.WithContext(ctx).Order("namespace ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list mission memory: %w", err)
	}

	records := make([]MissionMemoryRecord, 0, len(models))
	for _, model := range models {
		if strings.HasPrefix(model.Namespace, prefix) {
			records = append(records, r.toRecord(model))
		}
	}
	return records, nil
}

func (r *GormMissionMemoryRepository) Delete(ctx context.Context, namespace string) error {
	if err := r.db.WithContext(ctx).Delete(&MissionMemoryModel{}, "namespace = ?", namespace).Error; err != nil {
		return fmt.Errorf("failed to delete mission memory %s: %w", namespace, err)
	}
	return nil
}

func (r *GormMissionMemoryRepository) toModel(record MissionMemoryRecord) MissionMemoryModel {
	operation := record.Operation
	if operation == "" {
		operation = operationOf(record.Namespace)
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.clock.Now()
	}
	return MissionMemoryModel{
		Namespace:   record.Namespace,
		Operation:   operation,
		Data:        string(record.Data),
		UpdatedTick: record.UpdatedTick,
		UpdatedAt:   updatedAt,
	}
}

func (r *GormMissionMemoryRepository) toRecord(model MissionMemoryModel) MissionMemoryRecord {
	return MissionMemoryRecord{
		Namespace:   model.Namespace,
		Operation:   model.Operation,
		Data:        []byte(model.Data),
		UpdatedTick: model.UpdatedTick,
		UpdatedAt:   model.UpdatedAt,
	}
}

// operationOf returns the operation part of "<operation>.<mission>"
func operationOf(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[:i]
	}
	return namespace
}
