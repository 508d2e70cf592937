package mission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type stubMission struct {
	name, namespace string
}

func (s *stubMission) Name() string                                 { return s.name }
func (s *stubMission) Namespace() string                            { return s.namespace }
func (s *stubMission) Init(tc *mission.TickContext) error            { return nil }
func (s *stubMission) RoleCall(tc *mission.TickContext) error        { return nil }
func (s *stubMission) Actions(tc *mission.TickContext) error         { return nil }
func (s *stubMission) InvalidateCache(tc *mission.TickContext) error { return nil }
func (s *stubMission) Finalize(tc *mission.TickContext) error        { return nil }

func TestNamespace(t *testing.T) {
	assert.Equal(t, "alpha.upgrade", mission.Namespace("alpha", "upgrade"))
}

func TestPhasesOrder(t *testing.T) {
	assert.Equal(t, []mission.Phase{
		mission.PhaseInit, mission.PhaseRoleCall, mission.PhaseActions,
		mission.PhaseInvalidateCache, mission.PhaseFinalize,
	}, mission.Phases)
}

func TestNewOperation_Validation(t *testing.T) {
	_, err := mission.NewOperation("", "W1N1", "")
	var validation *shared.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)

	op, err := mission.NewOperation("alpha", "W1N1", "")
	require.NoError(t, err)
	assert.Equal(t, "W1N1", op.SpawnRoom(), "spawn room defaults to the operation room")
	assert.Equal(t, shared.LifecycleStatusPending, op.Status())
}

func TestOperation_RejectsDuplicateNamespace(t *testing.T) {
	op, err := mission.NewOperation("alpha", "W1N1", "W2N1")
	require.NoError(t, err)

	require.NoError(t, op.AddMission(&stubMission{name: "upgrade", namespace: "alpha.upgrade"}))
	assert.Error(t, op.AddMission(&stubMission{name: "upgrade", namespace: "alpha.upgrade"}))
	assert.Len(t, op.Missions(), 1)
}

func TestOperation_Lifecycle(t *testing.T) {
	op, _ := mission.NewOperation("alpha", "W1N1", "")

	require.NoError(t, op.Start(10))
	assert.True(t, op.IsRunning())

	require.NoError(t, op.Stop(20))
	assert.False(t, op.IsRunning())
	assert.Equal(t, shared.LifecycleStatusStopped, op.Status())
	assert.Error(t, op.Stop(21))
}
