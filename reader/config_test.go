package reader

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.WPM != 300 || cfg.Profile != "normal" {
		t.Errorf("defaults = %d wpm %q, want 300 normal", cfg.WPM, cfg.Profile)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero wpm", func(c *Config) { c.WPM = 0 }, false},
		{"negative wpm", func(c *Config) { c.WPM = -10 }, false},
		{"excessive wpm", func(c *Config) { c.WPM = 5000 }, false},
		{"unknown profile", func(c *Config) { c.Profile = "hyper" }, false},
		{"zero initial pages", func(c *Config) { c.InitialPages = 0 }, false},
		{"zero lookahead", func(c *Config) { c.Lookahead = 0 }, false},
		{"zero page paragraphs", func(c *Config) { c.PageParagraphs = 0 }, false},
		{"upper wpm bound", func(c *Config) { c.WPM = 3000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("wpm", 450)
	viper.Set("profile", "brisk")
	viper.Set("loop", true)
	viper.Set("loader.lookahead", 20)
	viper.Set("loader.yield_delay", "75ms")
	viper.Set("cache.enabled", false)

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WPM != 450 {
		t.Errorf("wpm = %d, want 450", cfg.WPM)
	}
	if cfg.Profile != "brisk" {
		t.Errorf("profile = %q, want brisk", cfg.Profile)
	}
	if !cfg.Loop {
		t.Error("loop should be set")
	}
	if cfg.Lookahead != 20 {
		t.Errorf("lookahead = %d, want 20", cfg.Lookahead)
	}
	if cfg.YieldDelay != 75*time.Millisecond {
		t.Errorf("yield delay = %v, want 75ms", cfg.YieldDelay)
	}
	if cfg.CacheEnabled {
		t.Error("cache should be disabled")
	}

	// Unset keys keep their defaults.
	if cfg.InitialPages != 3 {
		t.Errorf("initial pages = %d, want default 3", cfg.InitialPages)
	}
}

func TestLoadConfigFromViperRejectsInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("wpm", -1)
	if _, err := LoadConfigFromViper(); err == nil {
		t.Fatal("expected error for negative wpm")
	}
}
