// Package logging builds the process logger: human-readable console output
// plus a JSON file sink under the logs directory (created on demand).
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finflow/backend/internal/config"
)

// New returns a logger teed to stderr and cfg.File. The parent directory of
// cfg.File is created if absent; creating it again is not an error.
func New(cfg config.Log, appEnv string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	consoleEnc := zapcore.EncoderConfig{}
	if appEnv == "local" {
		consoleEnc = zap.NewDevelopmentEncoderConfig()
	} else {
		consoleEnc = zap.NewProductionEncoderConfig()
		consoleEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.Lock(file), level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
