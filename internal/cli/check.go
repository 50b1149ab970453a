package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/pkg/logger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a meet and roster without solving",
		Long: "Parses the input, validates the meet and roster, and runs the\n" +
			"per-event structural feasibility checks. Exits non-zero when any\n" +
			"event cannot be filled even in isolation.",
		Run: runCheck,
	}

	RootCmd.AddCommand(cmd)
}

// checkDoc is the JSON shape of a successful check.
type checkDoc struct {
	OK       bool   `json:"ok"`
	Meet     string `json:"meet,omitempty"`
	Events   int    `json:"events"`
	Swimmers int    `json:"swimmers"`
}

func runCheck(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		exitErr("set log level", err)
	}

	meet, roster, err := loadRequest(inputPath)
	if err != nil {
		exitErr("read request", err)
	}
	if meet.MaxPerSwimmer <= 0 {
		meet.MaxPerSwimmer = cfg.MaxEventsPerSwimmer
	}
	if meet.RestWindowSlots < 0 {
		meet.RestWindowSlots = cfg.RestWindowSlots
	}

	scorer, err := cfg.Scorer()
	if err != nil {
		exitErr("build scorer", err)
	}
	m, err := constraint.New(meet, roster, scorer)
	if err != nil {
		exitErr("validate", err)
	}
	if err := m.StructuralCheck(); err != nil {
		exitErr("structural check", err)
	}

	printJSON(checkDoc{
		OK:       true,
		Meet:     meet.Name,
		Events:   len(meet.Events),
		Swimmers: len(roster.Swimmers),
	})
}
