package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	perfAuto      bool
	perfDelayMs   int
	perfBatchSize int
	perfBatching  bool
)

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Get or set Adaptive Performance Manager settings",
}

var performanceGetCmd = &cobra.Command{
	Use:   "get",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.Perf.Settings()
		fmt.Printf("delay_ms: %d\nbatch_size: %d\nenable_batching: %t\n", s.DelayMs, s.BatchSize, s.EnableBatching)
		return nil
	},
}

var performanceSetCmd = &cobra.Command{
	Use:   "set",
	Args:  cobra.NoArgs,
	Short: "Manually override delay/batch settings; --auto=false selects manual mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("auto") {
			a.Perf.SetAutoMode(perfAuto)
		}
		if cmd.Flags().Changed("delay") {
			a.Perf.SetDelay(perfDelayMs)
		}
		if cmd.Flags().Changed("batch-size") {
			a.Perf.SetBatchSize(perfBatchSize)
		}
		if cmd.Flags().Changed("batching") {
			a.Perf.SetEnableBatching(perfBatching)
		}

		s := a.Perf.Settings()
		fmt.Printf("delay_ms: %d\nbatch_size: %d\nenable_batching: %t\n", s.DelayMs, s.BatchSize, s.EnableBatching)
		return nil
	},
}

func init() {
	performanceSetCmd.Flags().BoolVar(&perfAuto, "auto", true, "return to automatic mode")
	performanceSetCmd.Flags().IntVar(&perfDelayMs, "delay", 0, "processing delay in milliseconds")
	performanceSetCmd.Flags().IntVar(&perfBatchSize, "batch-size", 0, "batch size")
	performanceSetCmd.Flags().BoolVar(&perfBatching, "batching", true, "whether batching is enabled")
	performanceCmd.AddCommand(performanceGetCmd, performanceSetCmd)
	rootCmd.AddCommand(performanceCmd)
}
