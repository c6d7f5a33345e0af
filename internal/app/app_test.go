package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bassista/go_core/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutDownTimeout: 5 * time.Second,
		},
		Data: config.DataConfig{
			DocumentsDir: filepath.Join(dir, "documents"),
			SavesDir:     filepath.Join(dir, "saves"),
			LanguageDir:  filepath.Join(dir, "language"),
			BatchWorkers: 2,
		},
	}
}

func TestNew(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Shutdown()

	if a.Store == nil || a.Saves == nil || a.Lang == nil || a.Batch == nil || a.Files == nil {
		t.Error("expected all components to be wired")
	}
	if a.BaseCtx == nil {
		t.Error("expected lifecycle context")
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	a, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.StartWatchers(); err != nil {
		t.Fatalf("failed to start watchers: %v", err)
	}

	a.Shutdown()

	select {
	case <-a.BaseCtx.Done():
	case <-time.After(time.Second):
		t.Error("expected BaseCtx to be cancelled")
	}
}

func TestShutdown_NilSafe(t *testing.T) {
	var a *App
	a.Shutdown() // must not panic
}
