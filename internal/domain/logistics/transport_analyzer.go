package logistics

import "github.com/andrescamacho/colony-go/internal/domain/world"

// TransportAnalysis is the worker count and body needed to sustain a throughput
// over a distance. It is cached in mission memory and keyed by its own
// (Distance, Throughput) pair.
type TransportAnalysis struct {
	Distance    int        `json:"distance"`
	Throughput  int        `json:"throughput"`
	CartsNeeded int        `json:"cartsNeeded"`
	Body        world.Body `json:"body"`
}

// Matches returns true if the analysis was computed for the given inputs
func (a *TransportAnalysis) Matches(distance, throughput int) bool {
	return a != nil && a.Distance == distance && a.Throughput == throughput
}

// TransportAnalyzer converts a throughput requirement and a travel distance
// into a concrete cart count and body.
//
// Model: one cart makes a round trip of 2*distance + loadOverhead ticks and
// moves Capacity(body) per trip, so
//
//	cartsNeeded = ceil(throughput * (2*distance + loadOverhead) / capacity)
//
// The body maximises capacity under the spawn energy ceiling while keeping
// carryPerMove carry parts per move part.
type TransportAnalyzer struct {
	maxSpawnEnergy int
	loadOverhead   int
	carryPerMove   int
}

// NewTransportAnalyzer creates an analyzer. carryPerMove below 1 is treated as 1.
func NewTransportAnalyzer(maxSpawnEnergy, loadOverhead, carryPerMove int) *TransportAnalyzer {
	if carryPerMove < 1 {
		carryPerMove = 1
	}
	if loadOverhead < 0 {
		loadOverhead = 0
	}
	return &TransportAnalyzer{
		maxSpawnEnergy: maxSpawnEnergy,
		loadOverhead:   loadOverhead,
		carryPerMove:   carryPerMove,
	}
}

// Analyze computes a fresh analysis
func (a *TransportAnalyzer) Analyze(distance, throughput int) TransportAnalysis {
	body := CartBody(a.maxSpawnEnergy, a.carryPerMove)
	return TransportAnalysis{
		Distance:    distance,
		Throughput:  throughput,
		CartsNeeded: CartsNeeded(distance, throughput, body.Capacity(), a.loadOverhead),
		Body:        body,
	}
}

// Resolve returns cached when it was computed for the same inputs, otherwise a
// fresh analysis. The returned pointer is what callers store back in memory.
func (a *TransportAnalyzer) Resolve(cached *TransportAnalysis, distance, throughput int) *TransportAnalysis {
	if cached.Matches(distance, throughput) {
		return cached
	}
	fresh := a.Analyze(distance, throughput)
	return &fresh
}

// CartsNeeded returns ceil(throughput * (2*distance + overhead) / capacity).
// Zero throughput or capacity needs no carts.
func CartsNeeded(distance, throughput, capacity, overhead int) int {
	if throughput <= 0 || capacity <= 0 {
		return 0
	}
	roundTrip := 2*distance + overhead
	if roundTrip <= 0 {
		return 0
	}
	return ceilDiv(throughput*roundTrip, capacity)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
