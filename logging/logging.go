// Package logging builds the zap logger used by grids and search forms.
//
// Example usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Output: "both", FilePath: "grid.log"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	grid, err := crudgrid.New(schema, q, strategy, crudgrid.WithLogger(logger))
package logging

import (
	"io"
	"os"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output targets.
const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"
)

// Config describes a logger.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `mapstructure:"level"`

	// Format is json or console. Defaults to console.
	Format string `mapstructure:"format"`

	// Output is stdout, file or both. Defaults to stdout.
	Output string `mapstructure:"output"`

	// FilePath is required when Output writes to a file.
	FilePath string `mapstructure:"filePath"`

	// MaxSize is the rotation size in megabytes.
	MaxSize int `mapstructure:"maxSize"`

	MaxBackups int `mapstructure:"maxBackups"`

	// MaxAge is in days.
	MaxAge int `mapstructure:"maxAge"`
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	return build(cfg, os.Stdout)
}

func build(cfg Config, stdout io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "logging: level %q", cfg.Level)
		}
		level = parsed
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("logging: unknown format %q", cfg.Format)
	}

	var cores []zapcore.Core
	switch cfg.Output {
	case "", OutputStdout:
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(stdout), level))
	case OutputFile, OutputBoth:
		if cfg.FilePath == "" {
			return nil, errors.Errorf("logging: output %q needs a file path", cfg.Output)
		}
		writer := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
		if cfg.Output == OutputBoth {
			cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(stdout), level))
		}
	default:
		return nil, errors.Errorf("logging: unknown output %q", cfg.Output)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
