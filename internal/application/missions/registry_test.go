package missions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

func TestRegistry_BuildsKnownTypes(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	r := NewRegistry()
	deps := Dependencies{World: f.w, SpawnGroup: f.group}

	upgrade, err := r.Build(f.op, Spec{Type: TypeUpgrade}, deps)
	require.NoError(t, err)
	assert.Equal(t, "alpha.upgrade", upgrade.Namespace())

	remote, err := r.Build(f.op, Spec{Type: TypeRemoteUpgrade, Name: "push"}, deps)
	require.NoError(t, err)
	assert.Equal(t, "push", remote.Name())
	assert.Equal(t, "alpha.push", remote.Namespace())
}

func TestRegistry_RejectsUnknownType(t *testing.T) {
	f := newUpgradeFixture(t, 4)

	_, err := NewRegistry().Build(f.op, Spec{Type: "mining"}, Dependencies{World: f.w, SpawnGroup: f.group})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mission type "mining"`)
}

func TestRegistry_RequiresCollaborators(t *testing.T) {
	f := newUpgradeFixture(t, 4)

	_, err := NewRegistry().Build(f.op, Spec{Type: TypeUpgrade}, Dependencies{World: f.w})

	assert.Error(t, err)
}

func TestRegistry_RegisterReplacesFactory(t *testing.T) {
	f := newUpgradeFixture(t, 4)
	r := NewRegistry()
	called := false
	r.Register(TypeUpgrade, func(op *mission.Operation, spec Spec, deps Dependencies) (mission.Mission, error) {
		called = true
		return NewUpgradeMission(op, spec, deps), nil
	})

	_, err := r.Build(f.op, Spec{Type: TypeUpgrade}, Dependencies{World: f.w, SpawnGroup: f.group})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{TypeRemoteUpgrade, TypeUpgrade}, r.Types())
}
