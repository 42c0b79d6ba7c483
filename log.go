package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// setupLog configures logging to a file when RSVP_LOGFILE is set.
// Returns a closer for the log file.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.FatalLevel)

	if os.Getenv("RSVP_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	logFile := os.Getenv("RSVP_LOGFILE")
	if logFile == "" {
		return func() error { return nil }, nil
	}

	f, err := tea.LogToFileWith(logFile, "rsvp", log.Default())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}
