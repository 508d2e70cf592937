package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/colony-go/internal/domain/roles"
)

func TestClassify_EmptyIsAlwaysSeeking(t *testing.T) {
	for _, prev := range []roles.LoadState{roles.Seeking, roles.Delivering, roles.Idle} {
		for _, th := range []roles.Thresholds{roles.FullLoad, roles.QuarterRefill(200), {Load: 100, Refill: 50}} {
			assert.Equal(t, roles.Seeking, roles.Classify(prev, 0, 200, th))
		}
	}
}

func TestClassify_FullIsNeverSeeking(t *testing.T) {
	for _, prev := range []roles.LoadState{roles.Seeking, roles.Delivering, roles.Idle} {
		for _, th := range []roles.Thresholds{roles.FullLoad, roles.QuarterRefill(200), {Load: 500, Refill: 300}} {
			assert.Equal(t, roles.Delivering, roles.Classify(prev, 200, 200, th))
		}
	}
}

func TestClassify_Hysteresis(t *testing.T) {
	th := roles.QuarterRefill(200)

	tests := []struct {
		name    string
		prev    roles.LoadState
		carried int
		want    roles.LoadState
	}{
		{"partial load keeps seeking", roles.Seeking, 120, roles.Seeking},
		{"partial load keeps delivering", roles.Delivering, 120, roles.Delivering},
		{"below refill seeks again", roles.Delivering, 49, roles.Seeking},
		{"at refill keeps delivering", roles.Delivering, 50, roles.Delivering},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roles.Classify(tt.prev, tt.carried, 200, th))
		})
	}
}

func TestClassify_SmallLoadThreshold(t *testing.T) {
	th := roles.Thresholds{Load: 100}

	assert.Equal(t, roles.Delivering, roles.Classify(roles.Seeking, 100, 1000, th))
	assert.Equal(t, roles.Seeking, roles.Classify(roles.Seeking, 99, 1000, th))
}

func TestLoadState_String(t *testing.T) {
	assert.Equal(t, "seeking", roles.Seeking.String())
	assert.Equal(t, "delivering", roles.Delivering.String())
	assert.Equal(t, "idle", roles.Idle.String())
}
