package persistence

import (
	"time"
)

// MissionMemoryModel represents the mission_memory table. One row per mission
// namespace ("<operation>.<mission>").
type MissionMemoryModel struct {
	Namespace   string    `gorm:"column:namespace;primaryKey"`
	Operation   string    `gorm:"column:operation;index;not null"`
	Data        string    `gorm:"column:data;type:text;not null"` // JSON as text
	UpdatedTick uint64    `gorm:"column:updated_tick;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (MissionMemoryModel) TableName() string {
	return "mission_memory"
}

// TickLogModel represents the tick_logs table
type TickLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Tick      uint64    `gorm:"column:tick;index;not null"`
	Scope     string    `gorm:"column:scope;index;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (TickLogModel) TableName() string {
	return "tick_logs"
}

// RunModel represents the runs table. A run is one daemon session or one CLI
// scenario run.
type RunModel struct {
	ID         string     `gorm:"column:id;primaryKey"`
	Source     string     `gorm:"column:source;not null"` // scenario path or "daemon"
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	FirstTick  uint64     `gorm:"column:first_tick;not null"`
	Ticks      int        `gorm:"column:ticks;not null;default:0"`
	Faults     int        `gorm:"column:faults;not null;default:0"`
	Spawns     int        `gorm:"column:spawns;not null;default:0"`
}

func (RunModel) TableName() string {
	return "runs"
}
