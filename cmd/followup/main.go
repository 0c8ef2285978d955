package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/config"
	"github.com/knkapps/followup/internal/logging"
	"github.com/knkapps/followup/internal/repo"
	"github.com/knkapps/followup/internal/store"
	"github.com/knkapps/followup/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("followup %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	dataDir, err := store.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating data directory: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.New(cfg.Log, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	st, closeStore, err := openStore(cfg.Storage, dataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	log.Info("starting", zap.String("version", version), zap.String("backend", cfg.Storage.Backend))

	r := repo.New(st, log)
	app := ui.NewApp(r)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// openStore builds the configured snapshot backend.
func openStore(cfg config.StorageConfig, dataDir string, log *zap.Logger) (repo.Store, func(), error) {
	if cfg.Backend == config.BackendSQLite {
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dataDir, "followup.db")
		}
		s, err := store.NewSQLiteStore(path, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	path := cfg.Path
	if path == "" {
		path = filepath.Join(dataDir, "tasks.json")
	}
	return store.NewFileStore(path, log), func() {}, nil
}
