// Package logger builds leveled module loggers on top of go-logging.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/term"
)

const (
	plainFormat = `%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`
	colorFormat = `%{color}%{time:15:04:05.000} %{level:.4s}%{color:reset} %{module}: %{message}`
)

// NewLogger returns a logger for module writing to stderr. An unknown level
// falls back to INFO.
func NewLogger(level string, module string) *logging.Logger {
	log := logging.MustGetLogger(module)

	format := plainFormat
	if term.IsTerminal(int(os.Stderr.Fd())) {
		format = colorFormat
	}

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))
	leveled := logging.AddModuleLevel(formatted)

	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		lvl = logging.INFO
	}

	leveled.SetLevel(lvl, module)
	log.SetBackend(leveled)
	// IsEnabledFor consults the package default backend.
	logging.SetLevel(lvl, module)

	return log
}

// ParseTime splits an elapsed duration into hours, minutes and seconds.
func ParseTime(elapsed time.Duration) (uint32, uint32, uint32) {
	total := uint32(elapsed.Round(time.Second).Seconds())

	return total / 3600, total % 3600 / 60, total % 60
}
