package config

import (
	"os"
	"path/filepath"
)

const appName = "sukkiri"

// DeleteMode selects how filesystem items are reclaimed
type DeleteMode int

const (
	// ModeTrash moves items to the platform trash (recoverable).
	ModeTrash DeleteMode = iota
	// ModePermanent removes items from disk.
	ModePermanent
)

func (m DeleteMode) String() string {
	if m == ModePermanent {
		return "permanent"
	}
	return "trash"
}

// Config is the runtime configuration assembled from flags.
type Config struct {
	AllowlistPath string
	Mode          DeleteMode
	LogLevel      string
	LogPath       string
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		AllowlistPath: DefaultAllowlistPath(),
		Mode:          ModeTrash,
		LogLevel:      "info",
		LogPath:       DefaultLogPath(),
	}
}

// DefaultAllowlistPath is <user config dir>/sukkiri/allowlist.txt.
func DefaultAllowlistPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "allowlist.txt")
}

// DefaultLogPath is <user cache dir>/sukkiri/sukkiri.log. The TUI owns the
// terminal, so interactive runs log to a file.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "stderr"
	}
	return filepath.Join(dir, appName, appName+".log")
}
