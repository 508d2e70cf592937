package roster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/sim"
	"github.com/andrescamacho/colony-go/internal/application/missions"
	"github.com/andrescamacho/colony-go/internal/domain/world"
	"github.com/andrescamacho/colony-go/test/helpers"
)

const sampleRoster = `
operations:
  - name: alpha
    room: W1N1
    missions:
      - type: upgrade
        boost: true
  - name: beta
    room: W2N1
    spawn_room: W1N1
    stopped: true
    missions:
      - type: remote_upgrade
        max: 2
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleRoster))

	require.NoError(t, err)
	require.Len(t, r.Operations, 2)
	assert.Equal(t, "W1N1", r.Operations[1].SpawnRoom)
	require.NotNil(t, r.Operations[1].Missions[0].Max)
	assert.Equal(t, 2, *r.Operations[1].Missions[0].Max)
	assert.True(t, r.Operations[0].Missions[0].Boost)
}

func TestParse_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no operations":   "operations: []",
		"missing room":    "operations:\n  - name: alpha\n    missions:\n      - type: upgrade\n",
		"missing type":    "operations:\n  - name: alpha\n    room: W1N1\n    missions:\n      - boost: true\n",
		"negative max":    "operations:\n  - name: alpha\n    room: W1N1\n    missions:\n      - type: remote_upgrade\n        max: -1\n",
		"duplicate names": "operations:\n  - {name: a, room: W1N1, missions: [{type: upgrade}]}\n  - {name: a, room: W1N1, missions: [{type: upgrade}]}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBuild_StartsOperations(t *testing.T) {
	// Arrange
	r, err := Parse([]byte(sampleRoster))
	require.NoError(t, err)
	group := helpers.NewMockSpawnGroup("W1N1", 1300)
	resolver := func(room string) (world.SpawnGroup, error) {
		if room != "W1N1" {
			return nil, fmt.Errorf("no spawn group in %s", room)
		}
		return group, nil
	}
	deps := missions.Dependencies{World: newEmptyWorld(), Store: helpers.NewMockMemoryStore()}

	// Act
	ops, err := r.Build(missions.NewRegistry(), resolver, deps, 5)

	// Assert
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.True(t, ops[0].IsRunning())
	assert.False(t, ops[1].IsRunning())
	require.Len(t, ops[0].Missions(), 1)
	assert.Equal(t, "alpha.upgrade", ops[0].Missions()[0].Namespace())
	assert.Equal(t, "beta.remote_upgrade", ops[1].Missions()[0].Namespace())
}

func TestBuild_UnknownSpawnRoom(t *testing.T) {
	r, err := Parse([]byte("operations:\n  - {name: a, room: W5N5, missions: [{type: upgrade}]}\n"))
	require.NoError(t, err)
	resolver := func(room string) (world.SpawnGroup, error) {
		return nil, fmt.Errorf("no spawn group in %s", room)
	}

	_, err = r.Build(missions.NewRegistry(), resolver, missions.Dependencies{World: newEmptyWorld()}, 0)

	assert.ErrorContains(t, err, "no spawn group in W5N5")
}

func newEmptyWorld() world.World {
	sc, err := sim.ParseScenario([]byte("rooms:\n  - name: W1N1\n"))
	if err != nil {
		panic(err)
	}
	w, err := sim.NewWorld(sc)
	if err != nil {
		panic(err)
	}
	return w
}
