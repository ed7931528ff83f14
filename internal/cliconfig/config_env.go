package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (GELFHUB_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen-host", os.Getenv("GELFHUB_LISTEN_HOST"), &cfg.ListenHost)
	s.setString("destination-url", os.Getenv("GELFHUB_DESTINATION_URL"), &cfg.DestinationURL)
	s.setString("admin-addr", os.Getenv("GELFHUB_ADMIN_ADDR"), &cfg.AdminAddr)
	s.setString("log-level", os.Getenv("GELFHUB_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("listen-port", os.Getenv("GELFHUB_LISTEN_PORT"), &cfg.ListenPort); err != nil {
		return err
	}
	if err := s.setIntFromString("max-message-bytes", os.Getenv("GELFHUB_MAX_MESSAGE_BYTES"), &cfg.MaxMessageBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("retry-max-attempts", os.Getenv("GELFHUB_RETRY_MAX_ATTEMPTS"), &cfg.RetryMaxAttempts); err != nil {
		return err
	}

	if err := s.setDuration("idle-timeout", os.Getenv("GELFHUB_IDLE_TIMEOUT"), &cfg.IdleTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("GELFHUB_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-base", os.Getenv("GELFHUB_RETRY_BASE"), &cfg.RetryBase); err != nil {
		return err
	}
	if err := s.setDuration("retry-max-delay", os.Getenv("GELFHUB_RETRY_MAX_DELAY"), &cfg.RetryMaxDelay); err != nil {
		return err
	}
	if err := s.setDuration("metrics-interval", os.Getenv("GELFHUB_METRICS_INTERVAL"), &cfg.MetricsInterval); err != nil {
		return err
	}

	if err := s.setFloatFromString("retry-multiplier", os.Getenv("GELFHUB_RETRY_MULTIPLIER"), &cfg.RetryMultiplier); err != nil {
		return err
	}

	s.setBoolFromString("compress", os.Getenv("GELFHUB_COMPRESS"), &cfg.Compress)

	return nil
}
