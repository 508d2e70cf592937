package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Run is the summary of one daemon session or scenario run
type Run struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time
	FirstTick  uint64
	Ticks      int
	Faults     int
	Spawns     int
}

// GormRunRepository persists runs
type GormRunRepository struct {
	db *gorm.DB
}

func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save inserts or updates a run
func (r *GormRunRepository) Save(ctx context.Context, run *Run) error {
	model := RunModel{
		ID:         run.ID,
		Source:     run.Source,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		FirstTick:  run.FirstTick,
		Ticks:      run.Ticks,
		Faults:     run.Faults,
		Spawns:     run.Spawns,
	}
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// FindByID returns a run, or nil when it does not exist
func (r *GormRunRepository) FindByID(ctx context.Context, id string) (*Run, error) {
	var model RunModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find run %s: %w", id, err)
	}
	return &Run{
		ID:         model.ID,
		Source:     model.Source,
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
		FirstTick:  model.FirstTick,
		Ticks:      model.Ticks,
		Faults:     model.Faults,
		Spawns:     model.Spawns,
	}, nil
}
