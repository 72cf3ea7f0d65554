package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/seo-optimizer/onpage/config"
)

// NewLogger creates a zap logger writing to stderr and, when a path is
// configured, to a rotating log file. Level names are coloured only when
// stderr is a terminal.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	fd := os.Stderr.Fd()
	return newLogger(cfg, zapcore.Lock(os.Stderr), isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func newLogger(cfg config.LogConfig, console zapcore.WriteSyncer, terminal bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(parseLogLevel(cfg.Level))

	cores := []zapcore.Core{
		zapcore.NewCore(createEncoder(cfg.Format, terminal), console, level),
	}

	if cfg.File.Path != "" {
		cores = append(cores, zapcore.NewCore(createEncoder(cfg.Format, false), createFileWriter(cfg.File), level))
	}

	var core zapcore.Core
	if len(cores) == 1 {
		core = cores[0]
	} else {
		core = zapcore.NewTee(cores...)
	}

	return zap.New(core), nil
}

// parseLogLevel converts string level to zapcore.Level
func parseLogLevel(level string) zapcore.Level {
	switch level {
	case config.LogLevelDebug:
		return zap.DebugLevel
	case config.LogLevelInfo:
		return zap.InfoLevel
	case config.LogLevelWarn:
		return zap.WarnLevel
	case config.LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// createEncoder creates a zapcore.Encoder based on format.
// Colour level names are only used on the terminal.
func createEncoder(format string, terminal bool) zapcore.Encoder {
	if format == config.LogFormatJSON {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if terminal {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// createFileWriter creates a zapcore.WriteSyncer with rotation support
func createFileWriter(cfg config.FileLogConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}
