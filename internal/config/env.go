package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment variable ApplyEnv reads.
const EnvPrefix = "EDITCORE_"

// envSetter stores a raw environment value into the config.
type envSetter func(c *Config, val string) error

// envMapping returns the environment variable -> setting table.
func envMapping() map[string]envSetter {
	return map[string]envSetter{
		"EDITCORE_TAB_WIDTH":      intSetter(func(c *Config) *int { return &c.Editor.TabWidth }),
		"EDITCORE_BACKEND":        stringSetter(func(c *Config) *string { return &c.Editor.Backend }),
		"EDITCORE_LINE_ENDING":    stringSetter(func(c *Config) *string { return &c.Editor.LineEnding }),
		"EDITCORE_KILL_RING_SIZE": intSetter(func(c *Config) *int { return &c.Editor.KillRingSize }),
		"EDITCORE_LOG_LEVEL":      stringSetter(func(c *Config) *string { return &c.Logging.Level }),
		"EDITCORE_LOG_FORMAT":     stringSetter(func(c *Config) *string { return &c.Logging.Format }),
		"EDITCORE_WATCH_RECURSIVE": func(c *Config, val string) error {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return err
			}
			c.Watcher.Recursive = b
			return nil
		},
		"EDITCORE_SCRIPT_TIMEOUT": func(c *Config, val string) error {
			return c.Script.Timeout.UnmarshalText([]byte(val))
		},
	}
}

func intSetter(field func(*Config) *int) envSetter {
	return func(c *Config, val string) error {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func stringSetter(field func(*Config) *string) envSetter {
	return func(c *Config, val string) error {
		*field(c) = strings.TrimSpace(val)
		return nil
	}
}

// ApplyEnv overrides settings from environment variables found by lookup,
// then validates. A nil lookup uses os.LookupEnv. Empty values are treated
// as unset.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for name, set := range envMapping() {
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}
		if err := set(c, val); err != nil {
			return fmt.Errorf("environment variable %s: %w", name, err)
		}
	}
	return c.Validate()
}
