// Package config loads editcore settings from TOML or YAML files and
// EDITCORE_ environment variables.
//
// Precedence, lowest first: Default, the file given to Load, then the
// environment applied by ApplyEnv. Validate runs after every layer.
package config

import (
	"fmt"
	"time"
)

// Config holds every setting.
type Config struct {
	Editor  Editor  `toml:"editor" yaml:"editor"`
	History History `toml:"history" yaml:"history"`
	Logging Logging `toml:"logging" yaml:"logging"`
	Watcher Watcher `toml:"watcher" yaml:"watcher"`
	Script  Script  `toml:"script" yaml:"script"`
}

// Editor configures documents.
type Editor struct {
	// TabWidth is the tab stop used for display columns (1-16).
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// Backend selects the text buffer: "rope" or "gap".
	Backend string `toml:"backend" yaml:"backend"`

	// LineEnding is "auto" to keep what the file uses, or "lf", "crlf", "cr".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`

	// KillRingSize is how many cut and copied texts are remembered.
	KillRingSize int `toml:"kill_ring_size" yaml:"kill_ring_size"`
}

// History configures the edit tree.
type History struct {
	// MaxDescription truncates revision descriptions. 0 keeps them whole.
	MaxDescription int `toml:"max_description" yaml:"max_description"`
}

// Logging configures the zap logger.
type Logging struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format" yaml:"format"`
}

// Watcher configures file watching.
type Watcher struct {
	Recursive bool     `toml:"recursive" yaml:"recursive"`
	Ignore    []string `toml:"ignore" yaml:"ignore"`
}

// Script configures the Lua host.
type Script struct {
	// CallStackSize limits Lua call depth.
	CallStackSize int `toml:"call_stack_size" yaml:"call_stack_size"`

	// Timeout stops a script that runs longer. 0 disables it.
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: Editor{
			TabWidth:     4,
			Backend:      "rope",
			LineEnding:   "auto",
			KillRingSize: 10,
		},
		History: History{
			MaxDescription: 80,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Watcher: Watcher{
			Ignore: []string{".git/"},
		},
		Script: Script{
			CallStackSize: 256,
			Timeout:       Duration(5 * time.Second),
		},
	}
}

// Duration is a time.Duration written as a string such as "1.5s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
