package reader

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads the reader configuration from Viper,
// falling back to defaults for unset keys.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("wpm") {
		cfg.WPM = viper.GetInt("wpm")
	}
	if viper.IsSet("profile") {
		cfg.Profile = viper.GetString("profile")
	}
	if viper.IsSet("loop") {
		cfg.Loop = viper.GetBool("loop")
	}

	if viper.IsSet("loader.initial_pages") {
		cfg.InitialPages = viper.GetInt("loader.initial_pages")
	}
	if viper.IsSet("loader.lookahead") {
		cfg.Lookahead = viper.GetInt("loader.lookahead")
	}
	if viper.IsSet("loader.yield_delay") {
		cfg.YieldDelay = viper.GetDuration("loader.yield_delay")
	}
	if viper.IsSet("loader.failure_delay") {
		cfg.FailureDelay = viper.GetDuration("loader.failure_delay")
	}
	if viper.IsSet("loader.page_paragraphs") {
		cfg.PageParagraphs = viper.GetInt("loader.page_paragraphs")
	}

	if viper.IsSet("cache.enabled") {
		cfg.CacheEnabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.max_mb") {
		cfg.CacheMaxMB = viper.GetInt64("cache.max_mb")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
