package app

import (
	"strings"

	"github.com/inkwellhq/inkwell/pkg/logger"
)

// ConfigureLogging initialises the global logger from server settings,
// defaulting to info-level JSON output.
func ConfigureLogging(level, format string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	format = strings.TrimSpace(format)
	if format == "" {
		format = "json"
	}
	return logger.Init(level, format)
}
