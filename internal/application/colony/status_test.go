package colony

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTracker_FollowsTicks(t *testing.T) {
	// Arrange
	started := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newScheduler(t, &countingMission{})
	tracker := NewStatusTracker(s, started)
	r := NewRunner(s, &fakeEnv{tick: 40}, WithObserver(tracker))

	// Act
	_, err := r.Run(context.Background(), 2)
	require.NoError(t, err)
	status := tracker.Status()

	// Assert
	assert.Equal(t, started, status.StartedAt)
	assert.Equal(t, uint64(41), status.LastTick)
	assert.Equal(t, 2, status.TicksRun)
	assert.Equal(t, 0, status.Faults)
	require.Len(t, status.Operations, 1)
	assert.Equal(t, "alpha", status.Operations[0].Name)
	assert.Equal(t, "RUNNING", status.Operations[0].Status)
	assert.Equal(t, []string{"alpha.counting"}, status.Operations[0].Missions)
}
