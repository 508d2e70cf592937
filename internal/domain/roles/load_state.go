package roles

// LoadState is the per-unit state shared by every role
type LoadState int

const (
	// Seeking means the unit is travelling to or withdrawing from its source
	Seeking LoadState = iota
	// Delivering means the unit is carrying energy to its sink or working with it
	Delivering
	// Idle means no valid source or target exists this tick
	Idle
)

func (s LoadState) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case Delivering:
		return "delivering"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Thresholds controls when a unit switches between seeking and delivering
type Thresholds struct {
	// Load is the carried amount that ends seeking; 0 or above capacity means full
	Load int

	// Refill is the carried amount below which a delivering unit seeks again
	Refill int
}

// FullLoad switches to delivering when full and back to seeking when empty
var FullLoad = Thresholds{}

// QuarterRefill switches to delivering when full and seeks below a quarter of capacity
func QuarterRefill(capacity int) Thresholds {
	return Thresholds{Refill: capacity / 4}
}

// Classify returns the load state for the next evaluation. An empty unit is
// always seeking and a unit at or above the load threshold is never seeking.
func Classify(prev LoadState, carried, capacity int, t Thresholds) LoadState {
	if carried <= 0 {
		return Seeking
	}

	load := t.Load
	if load <= 0 || load > capacity {
		load = capacity
	}
	if carried >= load {
		return Delivering
	}

	if prev == Delivering && carried >= t.Refill {
		return Delivering
	}
	return Seeking
}
