// Command levytrack simulates a Lévy-driven target and tracks it with the
// Rao-Blackwellized particle filter.
//
// Usage:
//
//	levytrack run [flags] [scenario.yaml]
//	levytrack moments [flags]
//	levytrack config
//
// Without a scenario file run uses the built-in two-axis scenario.
//
// Examples:
//
//	levytrack config > scenario.yaml
//	levytrack run scenario.yaml
//	levytrack run --particles 1000 --workers 8 --every 10 scenario.yaml
//	levytrack run --log-file levytrack.log --log-level debug
//	levytrack moments --alpha 0.8 --dt 0.5 --draws 5
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// NewCmd returns the root command.
func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "levytrack [command] [flags] [args]",
		Short:         "levytrack tracks alpha-stable manoeuvring targets",
		SilenceUsage:  true,
		SilenceErrors: false,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.PersistentFlags().String("log-file", "", "`<path>` of a rotated log file; logs go to stderr when empty")
	rootCmd.PersistentFlags().String("log-level", "info", "`<level>` debug, info, warn or error")
	rootCmd.PersistentFlags().String("style", "light", "`<style>` of tables: default, bold, double, light or round")

	runCmd := &cobra.Command{
		Use:   "run [flags] [scenario.yaml]",
		Short: "Simulate a scenario and report filter accuracy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  doRun,
	}

	runCmd.Flags().Int("particles", 0, "`<n>` particles, overriding the scenario")
	runCmd.Flags().Int("workers", 0, "`<n>` worker goroutines, overriding the scenario")
	runCmd.Flags().Int("steps", 0, "`<n>` simulated steps, overriding the scenario")
	runCmd.Flags().Int("every", 0, "print every `<n>`-th step; 0 prints the summary only")

	momentsCmd := &cobra.Command{
		Use:   "moments [flags]",
		Short: "Draw jump paths and print the conditional increment moments of one axis",
		Args:  cobra.NoArgs,
		RunE:  doMoments,
	}

	momentsCmd.Flags().Float64("alpha", 1.4, "`<alpha>` stability index in (0, 2)")
	momentsCmd.Flags().Float64("c", 1, "`<c>` jump intensity")
	momentsCmd.Flags().Float64("mu-w", 0, "`<mu>` jump drift")
	momentsCmd.Flags().Float64("sigma-w2", 1, "`<var>` jump variance")
	momentsCmd.Flags().Float64("theta", 0.5, "`<theta>` Langevin damping")
	momentsCmd.Flags().Float64("dt", 1, "`<seconds>` interval length")
	momentsCmd.Flags().String("noise-case", "gaussian", "`<case>` residual: none, gaussian or partial")
	momentsCmd.Flags().Int("draws", 5, "`<n>` paths to draw")
	momentsCmd.Flags().Uint64("seed", 1, "`<seed>` of the driver")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the built-in scenario as YAML",
		Args:  cobra.NoArgs,
		RunE:  doConfig,
	}

	rootCmd.AddCommand(
		runCmd,
		momentsCmd,
		configCmd,
	)

	return rootCmd
}
