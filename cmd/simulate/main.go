package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/internal/logger"
	"github.com/jwebster45206/yingzhou/internal/storage"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/jwebster45206/yingzhou/pkg/textfilter"
)

func main() {
	var ticks int
	var dt float64
	var save bool

	flag.IntVar(&ticks, "ticks", 3600, "ticks to simulate")
	flag.Float64Var(&dt, "dt", 1.0/60, "seconds per tick")
	flag.BoolVar(&save, "save", false, "persist the final state with the configured save backend")
	flag.Parse()

	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if dt <= 0 {
		fmt.Println("error: -dt must be > 0")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, closeLog, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	session := state.NewSession(state.WithLogger(log), state.WithQueueCapacity(cfg.QueueCapacity))

	fmt.Println("=== Yingzhou Headless Tour ===")
	fmt.Printf("session=%s ticks=%d dt=%.4f\n\n", session.ID(), ticks, dt)

	visits := run(session, newPilot(), ticks, dt, func(v visit) {
		fmt.Printf("[tick %5d] %-10s epoch=%-9s fragments=%d reply=%s\n",
			v.tick, v.npc, v.epoch, v.fragments, textfilter.Truncate(v.reply, 24))
	})

	fmt.Printf("\nvisited %d NPCs\n\n", visits)
	fmt.Print(session.Snapshot().Report())

	if !save {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	saveLog := logger.WithSession(log, session.ID())
	store, err := storage.Open(ctx, cfg, saveLog)
	if err != nil {
		logger.WithError(saveLog, err).Error("Could not open save storage")
		os.Exit(1)
	}
	defer store.Close()
	if err := store.SaveRecord(ctx, session.Export()); err != nil {
		logger.WithError(saveLog, err).Error("Failed to save")
		os.Exit(1)
	}
	fmt.Printf("\nsaved as %s (%s backend)\n", session.ID(), cfg.SaveBackend)
}

type visit struct {
	tick      uint64
	npc       string
	epoch     string
	fragments int
	reply     string
}

// run drives session with p for the given ticks and reports each visit.
func run(session *state.Session, p *pilot, ticks int, dt float64, onVisit func(visit)) int {
	visits := 0
	for i := 0; i < ticks; i++ {
		events, visited := p.plan(session.Snapshot())
		for _, ev := range events {
			_ = session.Enqueue(ev)
		}
		session.Step(dt)

		if visited == "" {
			continue
		}
		visits++
		snap := session.Snapshot()
		if onVisit != nil {
			onVisit(visit{
				tick:      snap.Tick,
				npc:       visited,
				epoch:     snap.World.EpochName,
				fragments: snap.World.Fragments,
				reply:     snap.LastReply,
			})
		}
		if p.done() {
			break
		}
	}
	return visits
}
