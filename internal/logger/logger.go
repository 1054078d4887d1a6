// Package logger installs the process-wide zap logger.  CLI invocations
// log to stderr only; the daemon also writes JSON lines through a
// size-rotated file so a long-lived host keeps a bounded audit trail.
// Each per-building scrape result is exactly one line in that file.
package logger

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options mirror the config's log section.
type Options struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	// ToFile enables the rotating sink; off for one-shot CLI runs.
	ToFile bool
	Debug  bool
}

// Init builds the logger and replaces zap's globals.  Returns a flush
// function for main's defer.
func Init(opts Options) (func(), error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	consoleEnc := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), level),
	}

	if opts.ToFile {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, err
		}
		sink := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "aptscrape.log"),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(sink), level))
	}

	lg := zap.New(zapcore.NewTee(cores...))
	zap.ReplaceGlobals(lg)
	return func() { _ = lg.Sync() }, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	return cfg
}
