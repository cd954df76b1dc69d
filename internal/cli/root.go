// Package cli implements the wakectl command tree: evaluate, field and
// optimize run directly against a case file, without the daemon.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gowake/wakesim/pkg/logger"
)

var (
	casePath string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "wakectl",
		Short: "Wind farm wake evaluation and yaw optimization",
		Long: `wakectl evaluates wind farm wake interactions and searches per-turbine
yaw offsets that maximize total farm power. All commands read a case file
describing the machines, the layout and the wind resource.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewText(logLevel, os.Stderr))
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&casePath, "case", "c", "", "case file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
