// Package applog configures the process-wide go-logging backend.
package applog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// EnvLogLevel overrides the level passed to Setup when set.
const EnvLogLevel = "TREEDB_LOG_LEVEL"

var plainFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{module} %{level:.6s} ▶ %{message}`,
)
var colorFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} %{level:.6s} ▶ %{message}%{color:reset}`,
)

// ParseLevel accepts CRITICAL, ERROR, WARNING, NOTICE, INFO or DEBUG in any
// case.
func ParseLevel(name string) (logging.Level, error) {
	lvl, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return logging.ERROR, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}

// Setup sends every module logger to w at defaultLevel, or at the level
// named by TREEDB_LOG_LEVEL when that variable holds a valid level.
func Setup(w io.Writer, defaultLevel logging.Level, color bool) logging.Level {
	backend := logging.NewLogBackend(w, "", 0)
	format := plainFormat
	if color {
		format = colorFormat
	}
	formatted := logging.NewBackendFormatter(backend, format)

	level := defaultLevel
	if env := os.Getenv(EnvLogLevel); env != "" {
		if lvl, err := ParseLevel(env); err == nil {
			level = lvl
		}
	}

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
	return level
}
