// Command storyworld runs a seeded social simulation and records the run to
// SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/storyworld/internal/persistence"
	"github.com/talgya/storyworld/internal/plugins/defaults"
	"github.com/talgya/storyworld/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	seed := flag.Int64("seed", 0, "override the config seed")
	steps := flag.Int("steps", 0, "override the number of simulated days")
	characters := flag.Int("characters", 50, "initial character count")
	flag.Parse()

	cfg := sim.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = sim.LoadConfig(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *steps != 0 {
		cfg.Steps = *steps
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	runID := uuid.NewString()
	slog.Info("storyworld", "version", sim.Version, "run_id", runID, "seed", cfg.Seed)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755)
	db, err := persistence.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DatabasePath)

	// ── Simulation ────────────────────────────────────────────────────
	s, err := sim.New(cfg, defaults.Plugin())
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	for i := 0; i < *characters; i++ {
		defaults.SpawnCharacter(s.World)
	}
	slog.Info("world populated", "characters", *characters)

	// ── Run ───────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping at step boundary", "signal", sig)
		cancel()
	}()

	fmt.Printf("\nSimulating %s days with %s characters... (Ctrl+C to stop)\n",
		humanize.Comma(int64(cfg.Steps)), humanize.Comma(int64(*characters)))

	start := time.Now()
	completed := s.RunFor(ctx, cfg.Steps)
	elapsed := time.Since(start)

	// ── Save ──────────────────────────────────────────────────────────
	if err := db.SaveRun(s.World); err != nil {
		slog.Error("save failed", "error", err)
		os.Exit(1)
	}
	meta := map[string]string{
		"run_id":     runID,
		"seed":       fmt.Sprintf("%d", cfg.Seed),
		"steps":      fmt.Sprintf("%d", completed),
		"final_date": s.Date().String(),
		"saved_at":   time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if err := db.SaveMeta(k, v); err != nil {
			slog.Error("save meta failed", "key", k, "error", err)
			os.Exit(1)
		}
	}

	log := s.EventLog()
	fmt.Printf("Run complete: %s days in %s, %s life events, final date %s.\n",
		humanize.Comma(int64(completed)),
		elapsed.Round(time.Millisecond),
		humanize.Comma(int64(log.Len())),
		s.Date())
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
