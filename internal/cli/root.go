// Package cli implements the lineup CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/lineup/pkg/logger"
)

var (
	inputPath  string
	configPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Swim-meet lineup optimizer",
	Long: "Assigns swimmers to meet events for maximum total points, honoring\n" +
		"per-swimmer caps, rest windows and relay rules. Meet and roster are\n" +
		"read from a JSON file; service settings come from LINEUP_* env vars\n" +
		"or the YAML file named by LINEUP_CONFIG.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "-", "Meet and roster JSON file (- for stdin)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Service config YAML (defaults to LINEUP_CONFIG)")
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
