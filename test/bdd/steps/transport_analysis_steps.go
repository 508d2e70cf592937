package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/logistics"
)

type transportAnalysisContext struct {
	analyzer *logistics.TransportAnalyzer
	cached   *logistics.TransportAnalysis
	result   *logistics.TransportAnalysis
}

func (tc *transportAnalysisContext) reset() {
	tc.analyzer = nil
	tc.cached = nil
	tc.result = nil
}

func (tc *transportAnalysisContext) aTransportAnalyzerWith(energy, overhead, carryPerMove int) error {
	tc.analyzer = logistics.NewTransportAnalyzer(energy, overhead, carryPerMove)
	return nil
}

func (tc *transportAnalysisContext) aCachedAnalysisFor(distance, throughput int) error {
	analysis := tc.analyzer.Analyze(distance, throughput)
	tc.cached = &analysis
	return nil
}

func (tc *transportAnalysisContext) iAnalyze(distance, throughput int) error {
	analysis := tc.analyzer.Analyze(distance, throughput)
	tc.result = &analysis
	return nil
}

func (tc *transportAnalysisContext) iResolve(distance, throughput int) error {
	tc.result = tc.analyzer.Resolve(tc.cached, distance, throughput)
	return nil
}

func (tc *transportAnalysisContext) cartsShouldBeNeeded(expected int) error {
	if tc.result == nil {
		return fmt.Errorf("no analysis computed")
	}
	if tc.result.CartsNeeded != expected {
		return fmt.Errorf("expected %d carts, got %d", expected, tc.result.CartsNeeded)
	}
	return nil
}

func (tc *transportAnalysisContext) theCartBodyShouldBe(expected string) error {
	if got := tc.result.Body.String(); got != expected {
		return fmt.Errorf("expected body %s, got %s", expected, got)
	}
	return nil
}

func (tc *transportAnalysisContext) theCachedAnalysisShouldBeReturned() error {
	if tc.result != tc.cached {
		return fmt.Errorf("expected the cached analysis to be returned")
	}
	return nil
}

func (tc *transportAnalysisContext) aFreshAnalysisShouldBeReturned() error {
	if tc.result == tc.cached {
		return fmt.Errorf("expected a fresh analysis, got the cached one")
	}
	return nil
}

func InitializeTransportAnalysisScenario(sc *godog.ScenarioContext) {
	tc := &transportAnalysisContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	sc.Step(`^a transport analyzer with max spawn energy (\d+), load overhead (\d+) and (\d+) carry per move$`, tc.aTransportAnalyzerWith)
	sc.Step(`^a cached analysis for distance (\d+) and throughput (\d+)$`, tc.aCachedAnalysisFor)
	sc.Step(`^I analyze a distance of (\d+) with throughput (\d+)$`, tc.iAnalyze)
	sc.Step(`^I resolve the analysis for distance (\d+) and throughput (\d+)$`, tc.iResolve)
	sc.Step(`^(\d+) carts should be needed$`, tc.cartsShouldBeNeeded)
	sc.Step(`^the cart body should be "([^"]*)"$`, tc.theCartBodyShouldBe)
	sc.Step(`^the cached analysis should be returned$`, tc.theCachedAnalysisShouldBeReturned)
	sc.Step(`^a fresh analysis should be returned$`, tc.aFreshAnalysisShouldBeReturned)
}
