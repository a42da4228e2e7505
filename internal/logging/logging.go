// Package logging configures the application's structured logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup returns a logger writing to w at the given level.
// format "text" selects the human readable formatter, anything else emits JSON.
func Setup(w io.Writer, level, format string) *log.Logger {
	if w == nil {
		w = os.Stdout
	}

	logger := log.New()
	logger.SetOutput(w)

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	return logger
}
