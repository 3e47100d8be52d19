package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-boxdlist/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging configures the default slog logger: JSON to stdout plus a
// rotated file in the user's cache directory. warn receives setup problems.
func setupLogging(debugMode bool, warn io.Writer) io.Closer {
	writers := []io.Writer{os.Stdout}

	var logFile *lumberjack.Logger
	if logPath, err := getLogFilePath(); err == nil {
		logFile = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    config.LogMaxSizeMB,
			MaxBackups: config.LogMaxBackups,
			MaxAge:     config.LogMaxAgeDays,
			Compress:   config.LogCompressOld,
		}
		writers = append(writers, logFile)
	} else {
		_, _ = fmt.Fprintf(warn, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
