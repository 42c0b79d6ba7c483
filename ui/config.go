package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Source file path. Empty when reading from stdin.
	Path string

	// Document title shown in the status bar.
	DocumentName string

	// Playback settings.
	WPM     int    `env:"RSVP_WPM"     envDefault:"300"`
	Profile string `env:"RSVP_PROFILE" envDefault:"normal"`
	Loop    bool   `env:"RSVP_LOOP"`

	// Maximum render width. Zero means use the full terminal width.
	MaxWidth uint

	// Watch the source file and reload on change.
	WatchFile bool `env:"RSVP_WATCH" envDefault:"true"`

	EnableMouse bool
}
