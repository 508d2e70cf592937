package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func TestChance_Bounds(t *testing.T) {
	r := shared.NewSeededRandom(1)

	for i := 0; i < 100; i++ {
		assert.False(t, shared.Chance(r, 0))
		assert.True(t, shared.Chance(r, 1))
	}
}

func TestChance_SeededIsDeterministic(t *testing.T) {
	a := shared.NewSeededRandom(42)
	b := shared.NewSeededRandom(42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, shared.Chance(a, 0.3), shared.Chance(b, 0.3))
	}
}
