package cliconfig

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/bft-labs/gelfhub/internal/domain"
)

// Config holds CLI configuration for gelfhub.
type Config struct {
	ListenHost string
	ListenPort int

	DestinationURL string

	AdminAddr string

	IdleTimeout     time.Duration
	MaxMessageBytes int
	HTTPTimeout     time.Duration

	RetryMaxAttempts int
	RetryBase        time.Duration
	RetryMultiplier  float64
	RetryMaxDelay    time.Duration

	Compress        bool
	MetricsInterval time.Duration
	LogLevel        string
}

// DefaultConfig returns a Config with default values. Listen address, idle
// timeout, message ceiling, HTTP timeout, and attempt count mirror the
// long-standing forwarder defaults.
func DefaultConfig() Config {
	return Config{
		ListenHost:       "0.0.0.0",
		ListenPort:       12201,
		AdminAddr:        "127.0.0.1:12202",
		IdleTimeout:      60 * time.Second,
		MaxMessageBytes:  1 << 20, // 1MB
		HTTPTimeout:      10 * time.Second,
		RetryMaxAttempts: 3,
		RetryBase:        500 * time.Millisecond,
		RetryMultiplier:  2.0,
		RetryMaxDelay:    10 * time.Second,
		MetricsInterval:  60 * time.Second,
		LogLevel:         "info",
	}
}

// ListenAddr returns the host:port to bind for GELF ingestion.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// RetryPolicy converts the retry settings into a domain policy.
func (c *Config) RetryPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		MaxAttempts: c.RetryMaxAttempts,
		Base:        c.RetryBase,
		Multiplier:  c.RetryMultiplier,
		Max:         c.RetryMaxDelay,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DestinationURL == "" {
		return fmt.Errorf("destination-url is required (flag or GELFHUB_DESTINATION_URL)")
	}
	u, err := url.Parse(c.DestinationURL)
	if err != nil {
		return fmt.Errorf("destination-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("destination-url must be http or https, got %q", c.DestinationURL)
	}

	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("listen-port %d out of range", c.ListenPort)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max-message-bytes must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("retry settings: %w", err)
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
