package logistics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/world"
)

func TestCartBody(t *testing.T) {
	tests := []struct {
		name         string
		energy       int
		carryPerMove int
		expected     world.Body
	}{
		{"fallback below one unit", 90, 2, world.Body{Carry: 1, Move: 1}},
		{"two to one at 800", 800, 2, world.Body{Carry: 10, Move: 5}},
		{"one to one at 300", 300, 1, world.Body{Carry: 3, Move: 3}},
		{"capped by part limit", 5000, 1, world.Body{Carry: 25, Move: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logistics.CartBody(tt.energy, tt.carryPerMove))
		})
	}
}

func TestWorkerBody_ClampsToPartLimit(t *testing.T) {
	body := logistics.WorkerBody(30, 4, 30)

	assert.Equal(t, world.MaxBodyParts, body.Size())
	assert.Equal(t, 30, body.Work)
	assert.Equal(t, 4, body.Carry)
	assert.Equal(t, 16, body.Move)
}

func TestRatioBody(t *testing.T) {
	// 2:1:1 costs 300 per unit; 700 energy buys two units
	body := logistics.RatioBody(2, 1, 1, 700, 0)
	assert.Equal(t, world.Body{Work: 4, Carry: 2, Move: 2}, body)

	// maxUnits limits growth
	limited := logistics.RatioBody(2, 1, 1, 3000, 1)
	assert.Equal(t, world.Body{Work: 2, Carry: 1, Move: 1}, limited)

	// fractional ratios keep at least one part
	fractional := logistics.RatioBody(1, 3.5, 0.5, 250, 0)
	assert.Equal(t, world.Body{Work: 1, Carry: 3, Move: 1}, fractional)
}

func TestAffordableWork(t *testing.T) {
	halfMove := func(work int) world.Body { return logistics.WorkerBody(work, 4, (work+1)/2) }

	// 9W/4C/5M costs 1350; 8W/4C/4M costs 1200
	assert.Equal(t, 8, logistics.AffordableWork(9, 1325, halfMove))
	// 11W/4C/6M costs 1600; 10W/4C/5M costs 1450
	assert.Equal(t, 10, logistics.AffordableWork(11, 1575, halfMove))
	// already affordable
	assert.Equal(t, 8, logistics.AffordableWork(8, 1300, halfMove))
	// never below one
	assert.Equal(t, 1, logistics.AffordableWork(5, 100, halfMove))
}
