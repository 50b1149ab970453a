package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Metrics endpoint server timeouts.
const metricsReadHeaderTimeout = 5 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a meet lineup",
		Long: "Reads a meet and roster from the input JSON and prints the\n" +
			"maximum-score lineup. With --top-k (or top_k in config) greater\n" +
			"than 1, prints up to K distinct equal-score lineups, best first.",
		Run: runSolve,
	}

	cmd.Flags().Int("top-k", 0, "Number of distinct optimal lineups to print (0 = config)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while solving")
	cmd.Flags().StringP("output", "o", "-", "Lineup JSON destination (- for stdout)")

	RootCmd.AddCommand(cmd)
}

func runSolve(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		exitErr("set log level", err)
	}
	outputPath, _ := cmd.Flags().GetString("output")
	if k, _ := cmd.Flags().GetInt("top-k"); k > 0 {
		cfg.TopK = k
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		cfg.MetricsAddr = addr
	}

	meet, roster, err := loadRequest(inputPath)
	if err != nil {
		exitErr("read request", err)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	svc := service.New(service.WithConfig(cfg))
	if err := svc.Start(ctx); err != nil {
		exitErr("start service", err)
	}
	defer svc.Stop()

	if cfg.TopK > 1 {
		results, err := svc.OptimizeTopK(ctx, meet, roster, cfg.TopK)
		if err != nil {
			exitErr("solve", err)
		}
		docs := make([]lineupDoc, len(results))
		for i, l := range results {
			docs[i] = toLineupDoc(l)
		}
		writeJSON(outputPath, docs)
		return
	}

	result, err := svc.Optimize(ctx, meet, roster)
	if err != nil {
		if result != nil {
			// Infeasible runs still carry diagnostics worth printing.
			writeJSON(outputPath, toLineupDoc(result))
			os.Exit(1)
		}
		exitErr("solve", err)
	}
	writeJSON(outputPath, toLineupDoc(result))
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Get().Error(context.Background(), "metrics endpoint failed", logger.Error(err))
	}
}

func printJSON(v any) {
	writeJSON("-", v)
}

// writeJSON renders v to path, "-" or empty meaning stdout.
func writeJSON(path string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode result", err)
	}
	if path == "" || path == "-" {
		fmt.Println(string(b))
		return
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		exitErr("write result", err)
	}
}
