package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bassista/go_core/internal/batch"
	"github.com/bassista/go_core/internal/config"
	"github.com/bassista/go_core/internal/fileio"
	"github.com/bassista/go_core/internal/lang"
	"github.com/bassista/go_core/internal/logger"
	"github.com/bassista/go_core/internal/saves"
	"github.com/bassista/go_core/internal/store"
)

// App is the application container (immutable dependencies + lifecycle
// context). It is not a request context; handlers should still use gin's
// request context.
type App struct {
	Config *config.Config
	Files  *fileio.Manager
	Store  *store.Store
	Saves  *saves.Manager
	Lang   *lang.Catalog
	Batch  *batch.Pool

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// New wires the full component graph from cfg, creating the data directories
// if missing.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	files := fileio.NewManager(logger.WithComponent("fileio"))
	st := store.New(files, logger.WithComponent("store"))

	for _, dir := range []string{cfg.Data.DocumentsDir, cfg.Data.LanguageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	saveManager, err := saves.NewManager(cfg.Data.SavesDir, st, files, logger.WithComponent("saves"))
	if err != nil {
		return nil, fmt.Errorf("init saves: %w", err)
	}

	catalog, err := lang.NewCatalog(cfg.Data.LanguageDir, st, logger.WithComponent("lang"))
	if err != nil {
		return nil, fmt.Errorf("init language catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Files:   files,
		Store:   st,
		Saves:   saveManager,
		Lang:    catalog,
		Batch:   batch.NewPool(cfg.Data.BatchWorkers, st, logger.WithComponent("batch")),
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

// StartWatchers starts the language catalog invalidation watcher. It is
// separate from New so tests can build an App without background goroutines.
func (a *App) StartWatchers() error {
	if err := a.Lang.StartWatcher(a.BaseCtx); err != nil {
		return fmt.Errorf("start language watcher: %w", err)
	}
	return nil
}

// Shutdown cancels the lifecycle context, stopping all watchers.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}
