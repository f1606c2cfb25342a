package config

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is a log level name: debug, info, warn or error.
type Level struct {
	level slog.Level
	set   bool
}

// SlogLevel returns the level and whether one was configured.
func (l Level) SlogLevel() (slog.Level, bool) {
	return l.level, l.set
}

// String returns the lower-case level name, or "" when unset.
func (l Level) String() string {
	if !l.set {
		return ""
	}
	return strings.ToLower(l.level.String())
}

// UnmarshalText parses a level name. It is used by the TOML decoder.
func (l *Level) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	switch name {
	case "":
		*l = Level{}
		return nil
	case "debug":
		*l = Level{level: slog.LevelDebug, set: true}
	case "info":
		*l = Level{level: slog.LevelInfo, set: true}
	case "warn", "warning":
		*l = Level{level: slog.LevelWarn, set: true}
	case "error":
		*l = Level{level: slog.LevelError, set: true}
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

// MarshalText returns the level name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalYAML parses a scalar level name.
func (l *Level) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: log level must be a scalar", n.Line)
	}
	return l.UnmarshalText([]byte(n.Value))
}
