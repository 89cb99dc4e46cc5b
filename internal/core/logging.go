package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hookwarden/hookwarden/internal/config"
)

// LogEntry is one row of the dispatch decision trail.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	Event     string `json:"event"`
	ToolName  string `json:"tool_name,omitempty"`
	HookKey   string `json:"hook_key"`
	Decision  string `json:"decision"`
	Detail    string `json:"detail,omitempty"`
}

// DispatchLogger appends decision entries to a single writer, one
// entry per line in jsonl format or indented in pretty format.
type DispatchLogger struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

// NewDispatchLogger wraps w; format falls back to jsonl when invalid.
func NewDispatchLogger(w io.Writer, format string) *DispatchLogger {
	if !config.IsValidLoggingFormat(format) {
		format = config.LoggingFormatJSONL
	}
	return &DispatchLogger{w: w, format: format}
}

// Log writes one entry. Failures are reported to stderr and dropped;
// a broken log sink must never affect dispatch outcomes.
func (l *DispatchLogger) Log(entry LogEntry) {
	var data []byte
	var err error
	if l.format == config.LoggingFormatPretty {
		data, err = json.MarshalIndent(entry, "", "  ")
	} else {
		data, err = json.Marshal(entry)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
	}
}
