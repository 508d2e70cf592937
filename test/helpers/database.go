package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewTestDB opens an in-memory SQLite database with the mission memory, run
// and tick log tables migrated. It is closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "open test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// NewTestMemoryRepository returns a mission memory repository backed by a
// fresh test database. A nil clock stamps records with the wall clock.
func NewTestMemoryRepository(t testing.TB, clock shared.Clock) *persistence.GormMissionMemoryRepository {
	t.Helper()
	return persistence.NewGormMissionMemoryRepository(NewTestDB(t), clock)
}
