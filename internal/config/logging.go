package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hookwarden/hookwarden/internal/constants"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig holds log rotation settings, configurable through the
// `logging` section of either config scope.
type RotationConfig struct {
	MaxAgeDays int  `json:"maxAgeDays" toml:"maxAgeDays"` // days to retain rotated files
	MaxSizeMB  int  `json:"maxSizeMB" toml:"maxSizeMB"`   // megabytes before rotation
	MaxBackups int  `json:"maxBackups" toml:"maxBackups"` // rotated files to retain
	Compress   bool `json:"compress" toml:"compress"`     // gzip rotated files
}

// DefaultRotationConfig returns the rotation settings used when no scope
// configures logging.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxAgeDays: 30,
		MaxSizeMB:  10,
		MaxBackups: 5,
		Compress:   true,
	}
}

// withDefaults fills zero fields so a partial `logging` section behaves.
func (c RotationConfig) withDefaults() RotationConfig {
	def := DefaultRotationConfig()
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = def.MaxAgeDays
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = def.MaxSizeMB
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = def.MaxBackups
	}
	return c
}

// AuditLogPath returns the rotating audit log location for a project root.
func AuditLogPath(root string) string {
	return filepath.Join(constants.GetAppDir(root), constants.AuditLogFile)
}

// DispatchLogPath returns the rotating dispatch-decision log location.
func DispatchLogPath(root string) string {
	return filepath.Join(constants.GetAppDir(root), constants.DispatchLogFile)
}

// NewRotatingWriter opens a size/age-rotated log writer at logPath.
func NewRotatingWriter(logPath string, cfg RotationConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}

// CleanupOldLogs removes log files older than maxAgeDays from logDir. This
// covers files lumberjack no longer tracks after a rename or crash.
func CleanupOldLogs(logDir string, maxAgeDays int) error {
	if maxAgeDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	return filepath.Walk(logDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".jsonl" && ext != ".gz" && ext != ".log" {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove old log file %s: %w", path, err)
			}
		}
		return nil
	})
}

// Logging format constants for the dispatch log.
const (
	LoggingFormatJSONL  = "jsonl"
	LoggingFormatPretty = "pretty"
)

// IsValidLoggingFormat returns true if the provided format is supported.
func IsValidLoggingFormat(f string) bool {
	return f == LoggingFormatJSONL || f == LoggingFormatPretty
}
