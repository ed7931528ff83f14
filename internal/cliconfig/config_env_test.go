package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("GELFHUB_LISTEN_HOST", "10.0.0.5")
	t.Setenv("GELFHUB_LISTEN_PORT", "3201")
	t.Setenv("GELFHUB_DESTINATION_URL", "https://env.example.com")
	t.Setenv("GELFHUB_IDLE_TIMEOUT", "45s")
	t.Setenv("GELFHUB_MAX_MESSAGE_BYTES", "2048")
	t.Setenv("GELFHUB_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("GELFHUB_RETRY_MULTIPLIER", "1.5")
	t.Setenv("GELFHUB_COMPRESS", "true")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}

	if cfg.ListenHost != "10.0.0.5" {
		t.Errorf("ListenHost = %q", cfg.ListenHost)
	}
	if cfg.ListenPort != 3201 {
		t.Errorf("ListenPort = %d", cfg.ListenPort)
	}
	if cfg.DestinationURL != "https://env.example.com" {
		t.Errorf("DestinationURL = %q", cfg.DestinationURL)
	}
	if cfg.IdleTimeout != 45*time.Second {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout)
	}
	if cfg.MaxMessageBytes != 2048 {
		t.Errorf("MaxMessageBytes = %d", cfg.MaxMessageBytes)
	}
	if cfg.RetryMaxAttempts != 7 {
		t.Errorf("RetryMaxAttempts = %d", cfg.RetryMaxAttempts)
	}
	if cfg.RetryMultiplier != 1.5 {
		t.Errorf("RetryMultiplier = %v", cfg.RetryMultiplier)
	}
	if !cfg.Compress {
		t.Error("Compress = false, want true")
	}
}

func TestApplyEnvConfig_FlagPrecedence(t *testing.T) {
	t.Setenv("GELFHUB_LISTEN_PORT", "3201")

	cfg := DefaultConfig()
	cfg.ListenPort = 5555 // set via flag
	changed := map[string]bool{"listen-port": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatal(err)
	}
	if cfg.ListenPort != 5555 {
		t.Errorf("ListenPort = %d, flag value should win over env", cfg.ListenPort)
	}
}

func TestApplyEnvConfig_BadValues(t *testing.T) {
	t.Setenv("GELFHUB_LISTEN_PORT", "not-a-port")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Error("ApplyEnvConfig accepted invalid port")
	}
}

func TestApplyEnvConfig_Empty(t *testing.T) {
	cfg := DefaultConfig()
	want := cfg
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatal(err)
	}
	if cfg != want {
		t.Errorf("config changed with no env set: %+v", cfg)
	}
}
