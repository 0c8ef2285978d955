// Package logging builds the application logger. The TUI owns stdout, so
// logs go to a JSON file in the data directory.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/knkapps/followup/internal/config"
)

// FileName is the log file name inside the data directory.
const FileName = "followup.log"

// New creates a file-backed zap logger, or a no-op logger when disabled.
// The returned func flushes and closes the log file.
func New(cfg config.LogConfig, dataDir string) (*zap.Logger, func(), error) {
	if cfg.Disabled {
		return zap.NewNop(), func() {}, nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	path := filepath.Join(dataDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)

	log := zap.New(core)
	cleanup := func() {
		_ = log.Sync()
		_ = f.Close()
	}
	return log, cleanup, nil
}
