package reader

import (
	"fmt"
	"time"
)

// Config contains the reader's playback and loading options.
type Config struct {
	// Playback settings
	WPM     int    `yaml:"wpm" env:"RSVP_WPM" envDefault:"300"`
	Profile string `yaml:"profile" env:"RSVP_PROFILE" envDefault:"normal"`
	Loop    bool   `yaml:"loop" env:"RSVP_LOOP" envDefault:"false"`

	// Loader settings
	InitialPages   int           `yaml:"initial_pages" env:"RSVP_INITIAL_PAGES" envDefault:"3"`
	Lookahead      int           `yaml:"lookahead" env:"RSVP_LOOKAHEAD" envDefault:"10"`
	YieldDelay     time.Duration `yaml:"yield_delay" env:"RSVP_YIELD_DELAY" envDefault:"50ms"`
	FailureDelay   time.Duration `yaml:"failure_delay" env:"RSVP_FAILURE_DELAY" envDefault:"500ms"`
	PageParagraphs int           `yaml:"page_paragraphs" env:"RSVP_PAGE_PARAGRAPHS" envDefault:"8"`

	// Cache settings
	CacheEnabled bool  `yaml:"cache_enabled" env:"RSVP_CACHE_ENABLED" envDefault:"true"`
	CacheMaxMB   int64 `yaml:"cache_max_mb" env:"RSVP_CACHE_MAX_MB" envDefault:"50"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WPM:            300,
		Profile:        DefaultProfileName,
		Loop:           false,
		InitialPages:   3,
		Lookahead:      10,
		YieldDelay:     50 * time.Millisecond,
		FailureDelay:   500 * time.Millisecond,
		PageParagraphs: 8,
		CacheEnabled:   true,
		CacheMaxMB:     50,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.WPM <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, c.WPM)
	}
	if c.WPM > 3000 {
		return fmt.Errorf("wpm %d out of range (max 3000)", c.WPM)
	}
	if _, err := ProfileByName(c.Profile); err != nil {
		return err
	}
	if c.InitialPages < 1 {
		return fmt.Errorf("initial_pages must be at least 1, got %d", c.InitialPages)
	}
	if c.Lookahead < 1 {
		return fmt.Errorf("lookahead must be at least 1, got %d", c.Lookahead)
	}
	if c.PageParagraphs < 1 {
		return fmt.Errorf("page_paragraphs must be at least 1, got %d", c.PageParagraphs)
	}
	return nil
}
