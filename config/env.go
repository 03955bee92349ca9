package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultReloadInterval    = 5 * time.Second
	DefaultHeartbeatInterval = 2 * time.Second
)

// Settings are the daemon's own knobs. The daemon takes no flags, so they
// come from the environment.
type Settings struct {
	ReloadInterval    time.Duration
	HeartbeatInterval time.Duration
	// LogDir overrides the default daemon/ directory when non-empty.
	LogDir string
	// Watch enables filesystem nudges for early reloads.
	Watch bool
}

// SettingsFromEnv reads DISPATCH_* variables. Invalid values fall back to
// defaults and are returned as warnings for the caller to log.
func SettingsFromEnv() (Settings, []string) {
	s := Settings{
		ReloadInterval:    DefaultReloadInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		LogDir:            os.Getenv("DISPATCH_LOG_PATH"),
		Watch:             true,
	}
	var warnings []string

	if d, warn := envDuration("DISPATCH_RELOAD_INTERVAL", DefaultReloadInterval); warn != "" {
		warnings = append(warnings, warn)
	} else {
		s.ReloadInterval = d
	}
	if d, warn := envDuration("DISPATCH_HEARTBEAT_INTERVAL", DefaultHeartbeatInterval); warn != "" {
		warnings = append(warnings, warn)
	} else {
		s.HeartbeatInterval = d
	}

	switch v := os.Getenv("DISPATCH_WATCH"); v {
	case "", "1", "true", "on":
	case "0", "false", "off":
		s.Watch = false
	default:
		warnings = append(warnings, fmt.Sprintf("DISPATCH_WATCH=%q not understood, watching enabled", v))
	}
	return s, warnings
}

func envDuration(name string, def time.Duration) (time.Duration, string) {
	v := os.Getenv(name)
	if v == "" {
		return def, ""
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Sprintf("%s=%q: %v, using %s", name, v, err, def)
	}
	if d <= 0 {
		return def, fmt.Sprintf("%s=%q must be positive, using %s", name, v, def)
	}
	return d, ""
}
