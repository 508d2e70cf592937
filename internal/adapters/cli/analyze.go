package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/telemetry"
	"github.com/andrescamacho/colony-go/internal/domain/logistics"
	"github.com/andrescamacho/colony-go/internal/domain/potency"
)

// NewAnalyzeCommand creates the analyze command with subcommands
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Offline planning calculators",
		Long: `Run the planning calculators the missions use, without a world.

Examples:
  colony analyze transport --distance 40 --throughput 15
  colony analyze link --range 12 --links 2
  colony analyze telemetry out/ticks.csv`,
	}

	cmd.AddCommand(newAnalyzeTransportCommand())
	cmd.AddCommand(newAnalyzeLinkCommand())
	cmd.AddCommand(newAnalyzeTelemetryCommand())

	return cmd
}

// newAnalyzeTransportCommand sizes a cart fleet for a supply line
func newAnalyzeTransportCommand() *cobra.Command {
	var (
		distance     int
		throughput   int
		maxEnergy    int
		overhead     int
		carryPerMove int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "transport",
		Short: "Compute carts and cart body for a supply line",
		Long: `Compute how many carts are needed to move --throughput energy per tick over
--distance tiles, and the body each cart is spawned with.

Example:
  colony analyze transport --distance 40 --throughput 15 --max-energy 1300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if distance < 0 || throughput < 0 {
				return fmt.Errorf("--distance and --throughput must be >= 0")
			}
			analyzer := logistics.NewTransportAnalyzer(maxEnergy, overhead, carryPerMove)
			analysis := analyzer.Analyze(distance, throughput)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}

			fmt.Fprintln(out, "Transport Analysis")
			fmt.Fprintln(out, "==================")
			fmt.Fprintf(out, "  Distance:         %d\n", analysis.Distance)
			fmt.Fprintf(out, "  Throughput:       %d/tick\n", analysis.Throughput)
			fmt.Fprintf(out, "  Carts Needed:     %d\n", analysis.CartsNeeded)
			fmt.Fprintf(out, "  Cart Body:        %s\n", analysis.Body)
			fmt.Fprintf(out, "  Cart Capacity:    %d\n", analysis.Body.Capacity())
			fmt.Fprintf(out, "  Cart Cost:        %d\n", analysis.Body.Cost())
			return nil
		},
	}

	cmd.Flags().IntVar(&distance, "distance", 0, "Path length between source and destination")
	cmd.Flags().IntVar(&throughput, "throughput", 0, "Energy per tick to move")
	cmd.Flags().IntVar(&maxEnergy, "max-energy", 1300, "Spawn energy ceiling")
	cmd.Flags().IntVar(&overhead, "overhead", 0, "Extra ticks per round trip spent loading")
	cmd.Flags().IntVar(&carryPerMove, "carry-per-move", 2, "Carry parts per move part")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	_ = cmd.MarkFlagRequired("distance")
	_ = cmd.MarkFlagRequired("throughput")

	return cmd
}

// newAnalyzeLinkCommand rates a link battery
func newAnalyzeLinkCommand() *cobra.Command {
	var (
		rangeToStorage int
		links          int
		linkCapacity   int
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Compute the energy per tick a link battery sustains",
		Long: `Compute the throughput of links near storage feeding a controller link
--range tiles away.

Example:
  colony analyze link --range 12 --links 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rangeToStorage < 0 || links < 0 {
				return fmt.Errorf("--range and --links must be >= 0")
			}
			estimator := potency.NewEstimator(potency.Config{LinkCapacity: linkCapacity})
			fmt.Fprintf(cmd.OutOrStdout(), "Link throughput: %d/tick (range %d, %d links)\n",
				estimator.LinkThroughput(rangeToStorage, links), rangeToStorage, links)
			return nil
		},
	}

	cmd.Flags().IntVar(&rangeToStorage, "range", 0, "Distance between the storage links and the controller link")
	cmd.Flags().IntVar(&links, "links", 1, "Links within 2 tiles of storage")
	cmd.Flags().IntVar(&linkCapacity, "link-capacity", 0, "Energy per transfer (0 uses the default)")
	_ = cmd.MarkFlagRequired("range")

	return cmd
}

// newAnalyzeTelemetryCommand summarises a ticks.csv written by `colony run`
func newAnalyzeTelemetryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telemetry <ticks.csv>",
		Short: "Summarise tick telemetry from a previous run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := telemetry.ReadTicks(args[0])
			if err != nil {
				return err
			}
			summary := telemetry.Summarize(records)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ticks:            %d\n", summary.Ticks)
			fmt.Fprintf(out, "Faults:           %d\n", summary.Faults)
			fmt.Fprintf(out, "Spawn Requests:   %d\n", summary.SpawnRequests)
			fmt.Fprintf(out, "Energy Upgraded:  %d\n", summary.EnergyUpgraded)
			fmt.Fprintf(out, "Tick ms:          mean %.3f  stddev %.3f  p95 %.3f  max %.3f\n",
				summary.MeanTickMs, summary.StdDevTickMs, summary.P95TickMs, summary.MaxTickMs)
			return nil
		},
	}
	return cmd
}
