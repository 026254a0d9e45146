package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures the console logger for the given level name.
// Unknown level names fall back to info.
func SetupLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}

	return logger
}
