package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/1nis/Downloadix/internal/platform"
)

// Settings keys
const (
	KeyDownloadFolder = "download_folder"
	KeyListenAddr     = "listen_addr"
	KeyRateLimit      = "rate_limit"
	KeyRateBurst      = "rate_burst"
)

// Default values
const (
	DefaultSettingsFile   = "settings.json"
	DefaultDownloadFolder = "downloads"
	DefaultListenAddr     = ":5000"
	DefaultRateLimit      = 10.0 // requests per second
	DefaultRateBurst      = 20

	// EnvPrefix scopes environment overrides (DOWNLOADIX_LISTEN_ADDR etc.)
	EnvPrefix = "DOWNLOADIX"
)

// Snapshot is the client-facing view of the mutable settings.
type Snapshot struct {
	DownloadFolder string `json:"download_folder"`
}

// Settings manages application configuration: defaults, environment
// overrides, and a JSON settings file that the settings API rewrites.
type Settings struct {
	mu   sync.Mutex
	v    *viper.Viper
	file string
}

// NewSettings wires viper with defaults, env, and the settings file. A
// missing settings file is not an error; it is created on first update.
func NewSettings(file string) (*Settings, error) {
	if file == "" {
		file = DefaultSettingsFile
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("json")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDownloadFolder, DefaultDownloadFolder)
	v.SetDefault(KeyListenAddr, DefaultListenAddr)
	v.SetDefault(KeyRateLimit, DefaultRateLimit)
	v.SetDefault(KeyRateBurst, DefaultRateBurst)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading settings file %s: %w", file, err)
		}
	}

	return &Settings{v: v, file: file}, nil
}

// DownloadFolder returns the configured downloads directory, creating it if
// needed.
func (s *Settings) DownloadFolder() string {
	s.mu.Lock()
	dir := s.v.GetString(KeyDownloadFolder)
	s.mu.Unlock()

	_ = platform.CreateDirectoryIfNotExists(dir)
	return dir
}

// SetDownloadFolder validates that dir exists or can be created, then
// persists it to the settings file.
func (s *Settings) SetDownloadFolder(dir string) error {
	if err := os.MkdirAll(dir, platform.DefaultDirPermissions); err != nil {
		return fmt.Errorf("cannot create folder: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("invalid folder path: %s", dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(KeyDownloadFolder, dir)
	if err := s.v.WriteConfigAs(s.file); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// ListenAddr returns the HTTP listen address
func (s *Settings) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(KeyListenAddr)
}

// RateLimit returns the API rate limit in requests per second
func (s *Settings) RateLimit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetFloat64(KeyRateLimit)
}

// RateBurst returns the API rate limiter burst size
func (s *Settings) RateBurst() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetInt(KeyRateBurst)
}

// Snapshot returns the mutable settings as served by the settings API.
func (s *Settings) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{DownloadFolder: s.v.GetString(KeyDownloadFolder)}
}
