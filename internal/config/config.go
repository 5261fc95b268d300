// Package config loads the optional devshot.toml / devshot.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/f4ah6o/devshot/internal/capture"
	"github.com/f4ah6o/devshot/internal/static"
)

// Config is the top-level settings document.
type Config struct {
	Serve      Serve      `toml:"serve" yaml:"serve"`
	Screenshot Screenshot `toml:"screenshot" yaml:"screenshot"`
}

// Serve holds file server settings.
type Serve struct {
	// Port is the TCP port to listen on.
	Port int `toml:"port" yaml:"port"`
	// Root is the directory to serve.
	Root string `toml:"root" yaml:"root"`
	// Index is the file served for "/".
	Index string `toml:"index" yaml:"index"`
	// MIME adds or overrides extension to Content-Type entries.
	MIME map[string]string `toml:"mime" yaml:"mime"`
}

// Screenshot holds capture settings.
type Screenshot struct {
	URL         string   `toml:"url" yaml:"url"`
	Dir         string   `toml:"dir" yaml:"dir"`
	Width       int      `toml:"width" yaml:"width"`
	Height      int      `toml:"height" yaml:"height"`
	Timeout     Duration `toml:"timeout" yaml:"timeout"`
	Quiet       Duration `toml:"quiet" yaml:"quiet"`
	MaxInflight int      `toml:"max_inflight" yaml:"max_inflight"`
	ChromePath  string   `toml:"chrome_path" yaml:"chrome_path"`

	// UserAgent overrides Chrome's user agent and the robots.txt identity.
	// Empty keeps Chrome's own string and checks robots.txt as "devshot".
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
}

// Duration is a time.Duration written as a string such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Serve: Serve{
			Port:  3000,
			Root:  ".",
			Index: static.DefaultIndex,
		},
		Screenshot: Screenshot{
			URL:         capture.DefaultURL,
			Dir:         capture.DefaultDir,
			Width:       capture.DefaultWidth,
			Height:      capture.DefaultHeight,
			Timeout:     Duration{capture.DefaultTimeout},
			Quiet:       Duration{capture.DefaultQuiet},
			MaxInflight: capture.DefaultMaxInflight,
		},
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	if c.Screenshot.Width < 0 || c.Screenshot.Height < 0 {
		return fmt.Errorf("screenshot viewport %dx%d is invalid", c.Screenshot.Width, c.Screenshot.Height)
	}
	if c.Screenshot.Timeout.Duration < 0 || c.Screenshot.Quiet.Duration < 0 {
		return errors.New("screenshot durations must not be negative")
	}
	return nil
}
