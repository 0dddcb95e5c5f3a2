package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/internal/logger"
	"github.com/jwebster45206/yingzhou/internal/storage"
	"github.com/jwebster45206/yingzhou/pkg/state"
	pkgstorage "github.com/jwebster45206/yingzhou/pkg/storage"
)

const defaultLogFile = "yingzhou-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// The UI owns stdout.
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}

	log, closeLog, err := logger.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open save storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	id, _, _ := cfg.ResumeID()
	session, err := pkgstorage.ResumeSession(ctx, store, id, log, state.WithQueueCapacity(cfg.QueueCapacity))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load save: %v\n", err)
		os.Exit(1)
	}
	log = logger.WithSession(log, session.ID())

	p := tea.NewProgram(NewConsoleUI(cfg, session, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rec := session.Export()
	if err := store.SaveRecord(saveCtx, rec); err != nil {
		logger.WithError(log, err).Error("Failed to save progress")
		fmt.Fprintf(os.Stderr, "Failed to save progress: %v\n", err)
		os.Exit(1)
	}
	log.Info("Progress saved", "fragments", rec.FragmentsCollected)
	fmt.Printf("Progress saved. Resume with YINGZHOU_SAVE_ID=%s\n", rec.ID)
}
