package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func fixedClock() shared.Clock {
	return shared.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestConsoleLogger_Format(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "daemon", "debug", fixedClock())

	// Act
	logger.Log(common.LevelInfo, "placing battery in alpha, outcome: OK", map[string]interface{}{
		"operation": "alpha",
		"mission":   "upgrade",
		"tick":      uint64(7),
		"room":      "W1N1",
	})

	// Assert
	assert.Equal(t, "[2025-03-01T12:00:00Z] [alpha.upgrade] INFO: placing battery in alpha, outcome: OK room=W1N1 tick=7\n", buf.String())
}

func TestConsoleLogger_Threshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "daemon", "warning", fixedClock())

	logger.Log(common.LevelDebug, "hidden", nil)
	logger.Log(common.LevelInfo, "hidden", nil)
	logger.Log(common.LevelWarning, "faults this tick: 2", nil)

	assert.Equal(t, "[2025-03-01T12:00:00Z] [daemon] WARNING: faults this tick: 2\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, common.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, common.LevelWarning, ParseLevel("warn"))
	assert.Equal(t, common.LevelWarning, ParseLevel("WARNING"))
	assert.Equal(t, common.LevelError, ParseLevel("error"))
	assert.Equal(t, common.LevelInfo, ParseLevel("anything"))
}

type recordingSink struct {
	ticks  []uint64
	scopes []string
	extras []map[string]interface{}
	err    error
}

func (s *recordingSink) Log(ctx context.Context, tick uint64, scope, level, message string, metadata map[string]interface{}) error {
	s.ticks = append(s.ticks, tick)
	s.scopes = append(s.scopes, scope)
	s.extras = append(s.extras, metadata)
	return s.err
}

func TestTeeLogger_FansOut(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	sink := &recordingSink{}
	tee := NewTeeLogger(
		NewConsoleLogger(&buf, "daemon", "info", fixedClock()),
		NewRepositoryLogger(sink, "daemon", nil),
	)

	// Act
	tee.Log(common.LevelWarning, "resetting mission memory", map[string]interface{}{
		"operation": "alpha", "mission": "upgrade", "tick": uint64(3), "namespace": "alpha.upgrade",
	})

	// Assert
	assert.Contains(t, buf.String(), "[alpha.upgrade] WARNING: resetting mission memory")
	require.Len(t, sink.ticks, 1)
	assert.Equal(t, uint64(3), sink.ticks[0])
	assert.Equal(t, "alpha.upgrade", sink.scopes[0])
	assert.Equal(t, map[string]interface{}{"namespace": "alpha.upgrade"}, sink.extras[0])
}

func TestRepositoryLogger_ReportsFailures(t *testing.T) {
	var errOut bytes.Buffer
	logger := NewRepositoryLogger(&recordingSink{err: errors.New("locked")}, "daemon", &errOut)

	logger.Log(common.LevelInfo, "hello", nil)

	assert.Contains(t, errOut.String(), "failed to persist log: locked")
}
