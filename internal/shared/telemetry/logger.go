package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Levels in ascending severity. LOG_LEVEL selects the minimum emitted level.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var (
	out      io.Writer = os.Stdout
	minLevel           = levelInfo
	initOnce sync.Once
)

func setup() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		minLevel = levelDebug
	case "warn", "warning":
		minLevel = levelWarn
	case "error":
		minLevel = levelError
	default:
		minLevel = levelInfo
	}
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	write(levelDebug, "debug", msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write(levelInfo, "info", msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write(levelWarn, "warn", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write(levelError, "error", msg, fields)
}

func write(level int, name, msg string, fields map[string]any) {
	initOnce.Do(setup)
	if level < minLevel {
		return
	}
	entry := make(map[string]any, len(fields)+3)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = name
	entry["msg"] = msg
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(out, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(out, string(data))
}
