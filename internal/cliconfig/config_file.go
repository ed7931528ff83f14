package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ListenHost       string  `toml:"listen_host"`
	ListenPort       int     `toml:"listen_port"`
	DestinationURL   string  `toml:"destination_url"`
	AdminAddr        string  `toml:"admin_addr"`
	IdleTimeout      string  `toml:"idle_timeout"`
	MaxMessageBytes  int     `toml:"max_message_bytes"`
	HTTPTimeout      string  `toml:"http_timeout"`
	RetryMaxAttempts int     `toml:"retry_max_attempts"`
	RetryBase        string  `toml:"retry_base"`
	RetryMultiplier  float64 `toml:"retry_multiplier"`
	RetryMaxDelay    string  `toml:"retry_max_delay"`
	Compress         *bool   `toml:"compress"`
	MetricsInterval  string  `toml:"metrics_interval"`
	LogLevel         string  `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.gelfhub/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".gelfhub", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen-host", fc.ListenHost, &cfg.ListenHost)
	s.setInt("listen-port", fc.ListenPort, &cfg.ListenPort)
	s.setString("destination-url", fc.DestinationURL, &cfg.DestinationURL)
	s.setString("admin-addr", fc.AdminAddr, &cfg.AdminAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("idle-timeout", fc.IdleTimeout, &cfg.IdleTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-base", fc.RetryBase, &cfg.RetryBase); err != nil {
		return err
	}
	if err := s.setDuration("retry-max-delay", fc.RetryMaxDelay, &cfg.RetryMaxDelay); err != nil {
		return err
	}
	if err := s.setDuration("metrics-interval", fc.MetricsInterval, &cfg.MetricsInterval); err != nil {
		return err
	}

	s.setInt("max-message-bytes", fc.MaxMessageBytes, &cfg.MaxMessageBytes)
	s.setInt("retry-max-attempts", fc.RetryMaxAttempts, &cfg.RetryMaxAttempts)
	s.setFloat("retry-multiplier", fc.RetryMultiplier, &cfg.RetryMultiplier)

	s.setBool("compress", fc.Compress, &cfg.Compress)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
