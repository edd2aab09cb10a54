// Package log provides the leveled loggers shared by the sketch classifier.
//
// All loggers write to stderr because stdout carries the MCP protocol when the
// server is running. Trace is silent unless the level is "debug".
package log

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

// LevelEnv names the environment variable read by InitFromEnv.
const LevelEnv = "SKETCH_LOG_LEVEL"

func init() {
	InitLog("info")
}

// InitLog configures the loggers for the given level.
// Recognized levels are "debug", "info", "warning" and "error"; anything
// else is treated as "info".
func InitLog(level string) {
	initLog(os.Stderr, level)
}

// InitFromEnv configures the loggers from SKETCH_LOG_LEVEL.
func InitFromEnv() {
	InitLog(os.Getenv(LevelEnv))
}

func initLog(w io.Writer, level string) {
	trace, info, warning := io.Discard, w, w

	switch strings.ToLower(level) {
	case "debug", "trace":
		trace = w
	case "warning", "warn":
		info = io.Discard
	case "error":
		info = io.Discard
		warning = io.Discard
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	Trace = log.New(trace, "TRACE: ", flags)
	Info = log.New(info, "INFO: ", flags)
	Warning = log.New(warning, "WARNING: ", flags)
	Error = log.New(w, "ERROR: ", flags)
}
