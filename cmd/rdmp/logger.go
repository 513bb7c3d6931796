package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// syncLogger appends timestamped lines to a rotating sync log
type syncLogger struct {
	logFunc func(string, ...interface{})
}

func (l *syncLogger) log(format string, args ...interface{}) {
	l.logFunc(format, args...)
}

// setupSyncLogger creates a rotating log file for sync runs. The log path
// defaults to sync.log next to the database.
func setupSyncLogger(logPath string) (*lumberjack.Logger, syncLogger) {
	if logPath == "" {
		logPath = filepath.Join(localConfigDir(), "sync.log")
	}

	maxSizeMB := getEnvInt("RDMP_LOG_MAX_SIZE", 10)
	maxBackups := getEnvInt("RDMP_LOG_MAX_BACKUPS", 3)
	maxAgeDays := getEnvInt("RDMP_LOG_MAX_AGE", 7)

	logF := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	logger := syncLogger{
		logFunc: func(format string, args ...interface{}) {
			msg := fmt.Sprintf(format, args...)
			timestamp := time.Now().Format("2006-01-02 15:04:05")
			_, _ = fmt.Fprintf(logF, "[%s] %s\n", timestamp, msg)
		},
	}

	return logF, logger
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
