package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/ecsim/internal/config"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/core/event"
	"github.com/l1jgo/ecsim/internal/data"
	"github.com/l1jgo/ecsim/internal/persist"
	"github.com/l1jgo/ecsim/internal/render"
	"github.com/l1jgo/ecsim/internal/scripting"
	"github.com/l1jgo/ecsim/internal/system"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(tickRate time.Duration) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               ecsim  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mtick:\033[0m %s\n\n", tickRate)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/ecsim.toml"
	if p := os.Getenv("ECSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Sim.TickRate)

	// 3. Database (optional)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var db *persist.DB
	if cfg.Database.DSN != "" {
		printSection("database")
		db, err = persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		fmt.Println()
	}

	// 4. World and seed entities
	printSection("world")
	w := ecs.NewWorld(ecs.WithLogger(log))
	defer w.Close()
	event.Subscribe(w.Bus(), func(ev event.EntityCreated) {
		log.Debug("entity created", zap.Uint64("entity_id", ev.EntityID), zap.Uint64("tick", w.Tick()))
	})

	seed, err := data.LoadSeed(cfg.Sim.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	if _, err := seed.Spawn(w); err != nil {
		return fmt.Errorf("spawn seed: %w", err)
	}
	printStat("entities", seed.Count())

	// 5. Systems, in scheduling order
	w.AddSystem("increment_number", system.NewIncrementNumberSystem())
	w.AddSystem("increment_day", system.NewIncrementDaySystem(cfg.Sim.DayInterval))
	w.AddSystem("movement", system.NewMovementSystem())

	if cfg.Sim.ScriptsDir != "" {
		engine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
		if engine.HasHook() {
			w.AddSystem("score", system.NewScoreSystem(engine))
		} else {
			log.Warn("no score hook defined, score system disabled", zap.String("dir", cfg.Sim.ScriptsDir))
		}
	}

	src, err := newClockSource(cfg.Clock, db)
	if err != nil {
		return err
	}
	if src != nil {
		w.AddLongRunning("network_time", system.NewNetworkTimeSystem(src))
	}

	var snapshots *persist.SnapshotRepo
	runID := uuid.New()
	if cfg.Snapshot.Enabled {
		snapshots = persist.NewSnapshotRepo(db)
		w.AddLongRunning("snapshot", system.NewSnapshotSystem(snapshots, runID, cfg.Snapshot.Every, log))
	}
	printStat("systems", w.Systems())
	fmt.Println()

	var settled, failed int
	event.Subscribe(w.Bus(), func(ev event.TaskSettled) {
		settled++
		if ev.Err != nil {
			failed++
		}
	})

	// 6. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	screen := render.NewConsole(os.Stdout)
	log.Info("simulation started",
		zap.String("run_id", runID.String()),
		zap.Duration("tick_rate", cfg.Sim.TickRate),
	)

	stop := func(reason string) {
		w.Close()
		log.Info("simulation stopped",
			zap.String("reason", reason),
			zap.Uint64("ticks", w.Tick()),
			zap.Int("tasks_settled", settled),
			zap.Int("tasks_failed", failed),
		)
		if snapshots != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if tick, err := snapshots.LatestTick(ctx, runID); err != nil {
				log.Error("read last snapshot", zap.Error(err))
			} else {
				log.Info("last snapshot", zap.Uint64("tick", tick))
			}
		}
	}

	for {
		select {
		case <-ticker.C:
			if err := w.Update(cfg.Sim.TickRate); err != nil {
				log.Error("tick failed", zap.Uint64("tick", w.Tick()), zap.Error(err))
				if cfg.Sim.HaltOnError {
					stop("fast system error")
					return fmt.Errorf("tick %d: %w", w.Tick(), err)
				}
			}
			if err := screen.Render(w); err != nil {
				log.Error("render failed", zap.Error(err))
			}
			if cfg.Sim.MaxTicks > 0 && w.Tick() >= uint64(cfg.Sim.MaxTicks) {
				stop("max ticks reached")
				return nil
			}
		case sig := <-shutdownCh:
			stop(sig.String())
			return nil
		}
	}
}
