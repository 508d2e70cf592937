package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/test/helpers"
)

func TestTickLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormTickLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, 1, "alpha.upgrade", "WARNING", "faults this tick: 1", nil))
	clock.Advance(30 * time.Second)
	require.NoError(t, repo.Log(ctx, 2, "alpha.upgrade", "WARNING", "faults this tick: 1", nil))
	clock.Advance(31 * time.Second)
	require.NoError(t, repo.Log(ctx, 3, "alpha.upgrade", "WARNING", "faults this tick: 1", nil))

	// Assert
	entries, err := repo.Recent(ctx, 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].Tick)
	assert.Equal(t, uint64(1), entries[1].Tick)
}

func TestTickLogRepository_FiltersByScopeAndLevel(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTickLogRepository(db, nil)
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, 1, "alpha.upgrade", "INFO", "placing battery in alpha, outcome: OK", map[string]interface{}{"room": "W1N1"}))
	require.NoError(t, repo.Log(ctx, 1, "alpha.upgrade", "WARNING", "resetting mission memory", nil))
	require.NoError(t, repo.Log(ctx, 1, "beta.upgrade", "INFO", "placing battery in beta, outcome: OK", nil))

	// Act
	scope := "alpha.upgrade"
	level := "INFO"
	entries, err := repo.Recent(ctx, 0, &scope, &level)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "placing battery in alpha, outcome: OK", entries[0].Message)
	assert.Equal(t, "W1N1", entries[0].Metadata["room"])
}
