package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectFile is looked up from the working directory upwards and
// overrides the global config.
const ProjectFile = ".filemap.toml"

// Config holds filemap configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Gesture GestureConfig `toml:"gesture"`
	Folder  FolderConfig  `toml:"folder"`
	Serve   ServeConfig   `toml:"serve"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
	Hooks   HooksConfig   `toml:"hooks"`
}

// LayoutConfig locates the persisted layout document.
type LayoutConfig struct {
	File string `toml:"file"` // relative to the working directory
}

// CanvasConfig controls node size and edge hit testing.
type CanvasConfig struct {
	NodeWidth     float64 `toml:"node_width"`
	NodeHeight    float64 `toml:"node_height"`
	EdgeTolerance float64 `toml:"edge_tolerance"`
}

// GestureConfig controls click versus drag detection.
type GestureConfig struct {
	DragThreshold float64 `toml:"drag_threshold"`
}

// FolderConfig controls which files a folder import picks up.
type FolderConfig struct {
	Pattern string `toml:"pattern"`
}

// ServeConfig controls the live editing server.
type ServeConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	Watch          bool     `toml:"watch"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// HooksConfig defines lifecycle hook scripts.
type HooksConfig struct {
	PostSave string `toml:"post_save"`
	PostNew  string `toml:"post_new"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout:  LayoutConfig{File: "layout.json"},
		Canvas:  CanvasConfig{NodeWidth: 200, NodeHeight: 50, EdgeTolerance: 5},
		Gesture: GestureConfig{DragThreshold: 0},
		Folder:  FolderConfig{Pattern: "*.txt"},
		Serve:   ServeConfig{Addr: "127.0.0.1:7420", AllowedOrigins: []string{"*"}, Watch: true},
		Log:     LogConfig{Level: "info"},
		UI:      UIConfig{Color: true},
	}
}

// ConfigDir returns the filemap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "filemap")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Path returns the global config file path.
func Path() string {
	return configPath()
}

// findProjectConfig walks up from the working directory looking for a
// project config file. It returns "" when there is none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads the global config and then the project config on top of it.
// Missing or unreadable files leave the defaults in place.
func Load() *Config {
	cfg := Default()
	for _, path := range []string{configPath(), findProjectConfig()} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		_ = toml.Unmarshal(data, cfg)
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
