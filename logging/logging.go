// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logging builds the *zap.Logger every long-lived component in
// this repo is handed at construction time, backed by a rotating file
// sink plus stderr.
package logging

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where logs go and how verbose they are.
type Config struct {
	// Dir is the directory log files are written under. Created if
	// missing.
	Dir string
	// Filename is the base name of the rotated log file, e.g. "zecnode.log".
	Filename string
	// Level is one of trace, debug, info, warn, error, critical.
	Level string
	// MaxSizeMB is the size in megabytes at which the current log file
	// is rotated.
	MaxSizeMB int
	// MaxBackups is how many rotated files are retained.
	MaxBackups int
}

var levelNames = map[string]zapcore.Level{
	"trace":    zapcore.DebugLevel,
	"debug":    zapcore.DebugLevel,
	"info":     zapcore.InfoLevel,
	"warn":     zapcore.WarnLevel,
	"error":    zapcore.ErrorLevel,
	"critical": zapcore.FatalLevel,
}

// ValidLevel reports whether level is one of the recognized debug levels.
func ValidLevel(level string) bool {
	_, ok := levelNames[level]
	return ok
}

// New builds a logger that writes structured JSON to a rotating file under
// cfg.Dir/cfg.Filename, and human-readable console output to stderr.
func New(cfg Config) (*zap.Logger, error) {
	level, ok := levelNames[cfg.Level]
	if !ok {
		return nil, errors.Errorf("logging: unrecognized level %q", cfg.Level)
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return nil, errors.Wrap(err, "logging: create log dir")
		}
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, cfg.Filename),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(fileSink), level)
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level)

	return zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller()), nil
}
