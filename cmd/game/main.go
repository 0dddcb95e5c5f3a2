package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jwebster45206/yingzhou/internal/config"
	"github.com/jwebster45206/yingzhou/internal/logger"
	"github.com/jwebster45206/yingzhou/internal/storage"
	"github.com/jwebster45206/yingzhou/pkg/state"
	pkgstorage "github.com/jwebster45206/yingzhou/pkg/storage"
)

func main() {
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

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Could not open save storage")
		os.Exit(1)
	}
	defer store.Close()

	id, _, _ := cfg.ResumeID()
	session, err := pkgstorage.ResumeSession(ctx, store, id, log, state.WithQueueCapacity(cfg.QueueCapacity))
	if err != nil {
		logger.WithError(log, err).Error("Failed to load save")
		os.Exit(1)
	}
	log = logger.WithSession(log, session.ID())

	ebiten.SetWindowTitle("Yingzhou")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)
	if err := ebiten.RunGame(NewGame(session, log, cfg.MaxFrameDelta)); err != nil {
		logger.WithError(log, err).Error("Game exited with error")
	}

	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rec := session.Export()
	if err := store.SaveRecord(saveCtx, rec); err != nil {
		logger.WithError(log, err).Error("Failed to save progress")
		os.Exit(1)
	}
	log.Info("Progress saved")
}
