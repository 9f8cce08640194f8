package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all filesystem paths used by nimbus
type Paths struct {
	// Home is the nimbus home directory (~/.nimbus)
	Home string

	// ConfigPath is the user configuration file (~/.nimbus/config.json)
	ConfigPath string

	// ContentPath is the optional site content override (~/.nimbus/content.yaml)
	ContentPath string

	// LogsDir is where log files are written (~/.nimbus/logs)
	LogsDir string
}

// DefaultPaths returns the standard nimbus paths, honoring NIMBUS_HOME.
func DefaultPaths() (*Paths, error) {
	home := os.Getenv("NIMBUS_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".nimbus")
	}
	return PathsIn(home), nil
}

// PathsIn returns the nimbus paths rooted at the given home directory.
func PathsIn(home string) *Paths {
	return &Paths{
		Home:        home,
		ConfigPath:  filepath.Join(home, "config.json"),
		ContentPath: filepath.Join(home, "content.yaml"),
		LogsDir:     filepath.Join(home, "logs"),
	}
}

// EnsureDirectories creates the directories nimbus writes to.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Home, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
