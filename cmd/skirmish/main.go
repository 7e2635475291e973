// Package main provides the headless skirmish binary. It loads archetype
// and scenario content, builds an encounter, and plays it to completion
// with both sides under AI control, printing the combat log as it goes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/archetype"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/engine"
	"github.com/cory-johannsen/skirmish/internal/game/scenario"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// maxRounds bounds a stalled encounter so the binary always terminates.
const maxRounds = 100

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioName := flag.String("scenario", "breach", "scenario name (resolved under the configured scenarios dir)")
	seed := flag.Int64("seed", 0, "deterministic dice seed for replayable encounters; 0 uses crypto randomness")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	contentStart := time.Now()
	registry, err := archetype.LoadDirectory(cfg.Content.ArchetypesDir)
	if err != nil {
		logger.Fatal("loading archetypes", zap.Error(err))
	}
	logger.Info("archetypes loaded",
		zap.Int("count", len(registry.All())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	scenarioPath := filepath.Join(cfg.Content.ScenariosDir, *scenarioName+".yaml")
	scn, err := scenario.Load(scenarioPath, registry)
	if err != nil {
		logger.Fatal("loading scenario", zap.String("path", scenarioPath), zap.Error(err))
	}
	logger.Info("scenario loaded",
		zap.String("name", scn.Name),
		zap.Int("units", len(scn.Units)),
	)

	grid, units, err := scn.Build(registry)
	if err != nil {
		logger.Fatal("building scenario", zap.Error(err))
	}

	src := dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
		logger.Info("dice seeded for replay", zap.Int64("seed", *seed))
	}

	encLogger := observability.NewEncounterLogger(logger, scn.Name)
	eng := engine.New(grid, src, encLogger, cfg.Game.ActionsPerTurn)
	eng.SetRegistry(registry)
	for _, u := range units {
		if err := eng.AddUnit(u); err != nil {
			logger.Fatal("placing unit", zap.String("unit", u.Name), zap.Error(err))
		}
	}
	if err := eng.Start(); err != nil {
		logger.Fatal("starting encounter", zap.Error(err))
	}

	delay := time.Duration(cfg.Game.AIStepDelayMs) * time.Millisecond
	controller := ai.Greedy{}
	printed := 0

	for eng.Phase() == engine.Combat {
		if eng.Round() > maxRounds {
			logger.Warn("encounter exceeded round limit", zap.Int("max_rounds", maxRounds))
			break
		}
		if err := ai.PlayTurn(eng, controller); err != nil {
			logger.Fatal("playing turn", zap.Error(err))
		}
		printed = printLog(eng, printed)
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	printed = printLog(eng, printed)

	outcome := eng.Phase()
	logger.Info("encounter finished",
		zap.String("scenario", scn.Name),
		zap.String("outcome", outcome.String()),
		zap.Int("rounds", eng.Round()),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Printf("\n%s: %s after %d round(s)\n", scn.Name, outcome, eng.Round())

	if outcome != engine.Victory && outcome != engine.Defeat {
		os.Exit(2)
	}
}

// printLog writes combat log entries added since the last call and
// returns the new high-water mark.
func printLog(e *engine.Engine, from int) int {
	entries := e.Log()
	for _, entry := range entries[from:] {
		if entry.Detail != "" {
			fmt.Printf("[r%d %s] %s (%s)\n", entry.Round, entry.Category, entry.Message, entry.Detail)
			continue
		}
		fmt.Printf("[r%d %s] %s\n", entry.Round, entry.Category, entry.Message)
	}
	return len(entries)
}
