// Package config provides centralized configuration management.
// Environment variables, standard paths, and the optional settings file
// all resolve here instead of scattered os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Env holds all promptdeck environment variables.
type Env struct {
	// Home overrides the app home directory (PROMPTDECK_HOME)
	Home string

	// NoColor disables colored output (PROMPTDECK_NO_COLOR or NO_COLOR)
	NoColor bool

	// Debug enables debug-level log events (PROMPTDECK_DEBUG)
	Debug bool

	// Endpoint is the default extraction API endpoint (PROMPTDECK_ENDPOINT)
	Endpoint string
}

var (
	env     *Env
	envOnce sync.Once
)

// GetEnv returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func GetEnv() *Env {
	envOnce.Do(func() {
		env = &Env{
			Home:     os.Getenv("PROMPTDECK_HOME"),
			NoColor:  os.Getenv("PROMPTDECK_NO_COLOR") == "1" || os.Getenv("NO_COLOR") != "",
			Debug:    os.Getenv("PROMPTDECK_DEBUG") == "1",
			Endpoint: os.Getenv("PROMPTDECK_ENDPOINT"),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

// Paths holds standard promptdeck directory paths.
type Paths struct {
	// Home is the app home directory (~/.promptdeck)
	Home string

	// Data is the data directory, home of the sqlite database
	Data string

	// Sessions is the default directory for exported session files
	Sessions string

	// Chunks is the default directory for saved document chunks
	Chunks string

	// ConfigFile is the optional settings file (~/.promptdeck/config.yaml)
	ConfigFile string
}

// GetPaths returns the standard directory layout, honoring PROMPTDECK_HOME.
func GetPaths() (*Paths, error) {
	home := GetEnv().Home
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		home = filepath.Join(userHome, ".promptdeck")
	}

	return &Paths{
		Home:       home,
		Data:       filepath.Join(home, "data"),
		Sessions:   filepath.Join(home, "sessions"),
		Chunks:     filepath.Join(home, "chunks"),
		ConfigFile: filepath.Join(home, "config.yaml"),
	}, nil
}

// EnsureDir creates a directory if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Settings are the file-backed options from config.yaml. Missing file or
// missing keys fall back to defaults.
type Settings struct {
	// Endpoint is the default extraction API endpoint
	Endpoint string

	// MaxFileBytes caps how much of each selected file is read
	MaxFileBytes int64

	// DebounceMS is the delay before recomputing token counts
	DebounceMS int

	// TreeDepth is the default tree render depth limit
	TreeDepth int

	// TreeEntryLimit is the default per-directory entry cap
	TreeEntryLimit int
}

// LoadSettings reads config.yaml from the app home, applying defaults for
// anything unset. Environment variables win over the file.
func LoadSettings(paths *Paths) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(paths.ConfigFile)
	v.SetConfigType("yaml")

	v.SetDefault("endpoint", "")
	v.SetDefault("max_file_bytes", 512*1024)
	v.SetDefault("debounce_ms", 300)
	v.SetDefault("tree_depth", 3)
	v.SetDefault("tree_entry_limit", 200)

	if err := v.ReadInConfig(); err != nil {
		// Missing settings file is fine, malformed is not.
		if !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	s := &Settings{
		Endpoint:       v.GetString("endpoint"),
		MaxFileBytes:   v.GetInt64("max_file_bytes"),
		DebounceMS:     v.GetInt("debounce_ms"),
		TreeDepth:      v.GetInt("tree_depth"),
		TreeEntryLimit: v.GetInt("tree_entry_limit"),
	}

	if e := GetEnv().Endpoint; e != "" {
		s.Endpoint = e
	}
	return s, nil
}
