package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// TickLogRepository persists log lines of the tick loop
type TickLogRepository interface {
	// Log writes a log entry with deduplication
	Log(ctx context.Context, tick uint64, scope, level, message string, metadata map[string]interface{}) error

	// Recent returns the newest entries, optionally filtered by scope and level
	Recent(ctx context.Context, limit int, scope, level *string) ([]TickLogEntry, error)
}

// TickLogEntry represents a log entry
type TickLogEntry struct {
	ID        int
	Tick      uint64
	Scope     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormTickLogRepository is a GORM-based implementation
type GormTickLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: scope+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormTickLogRepository creates a new tick log repository.
// If clock is nil, uses RealClock.
func NewGormTickLogRepository(db *gorm.DB, clock shared.Clock) *GormTickLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormTickLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry; the same scope and message is written at most once per window
func (r *GormTickLogRepository) Log(ctx context.Context, tick uint64, scope, level, message string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := scope + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	entry := &TickLogModel{
		Tick:      tick,
		Scope:     scope,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write tick log: %w", err)
	}
	return nil
}

// cleanupDedupCache removes entries older than the window. Must be called while holding dedupMu.
func (r *GormTickLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

func (r *GormTickLogRepository) Recent(ctx context.Context, limit int, scope, level *string) ([]TickLogEntry, error) {
	var models []TickLogModel

	query := r.db.WithContext(ctx)
	if scope != nil {
		query = query.Where("scope = ?", *scope)
	}
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	query = query.Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read tick logs: %w", err)
	}

	entries := make([]TickLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = TickLogEntry{
			ID:        model.ID,
			Tick:      model.Tick,
			Scope:     model.Scope,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}
	return entries, nil
}
