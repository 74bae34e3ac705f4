package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FICOPILOT_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_SessionTTLEnvOverride(t *testing.T) {
	t.Setenv("FICOPILOT_SESSION_TTL", "30m")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if got := cfg.Sessions.GetIdleTTL(); got != 30*time.Minute {
		t.Errorf("Sessions.GetIdleTTL() = %v, want %v", got, 30*time.Minute)
	}
}

func TestConfig_InvalidTTLFallsBack(t *testing.T) {
	cfg := &Config{Sessions: SessionsConfig{IdleTTL: "not-a-duration"}}
	if got := cfg.Sessions.GetIdleTTL(); got != time.Hour {
		t.Errorf("GetIdleTTL() = %v for invalid input, want %v", got, time.Hour)
	}
}

func TestConfig_UploadMaxBytes(t *testing.T) {
	cfg := &Config{Upload: UploadConfig{MaxSizeMB: 2}}
	if got := cfg.Upload.MaxBytes(); got != 2<<20 {
		t.Errorf("MaxBytes() = %d, want %d", got, 2<<20)
	}

	cfg.Upload.MaxSizeMB = 0
	if got := cfg.Upload.MaxBytes(); got != 10<<20 {
		t.Errorf("MaxBytes() zero default = %d, want %d", got, 10<<20)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ficopilot.toml")
	content := `
environment = "production"

[server]
port = 9999

[sessions]
idle_ttl = "15m"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if got := cfg.Sessions.GetIdleTTL(); got != 15*time.Minute {
		t.Errorf("GetIdleTTL() = %v, want 15m", got)
	}
	// Untouched sections keep defaults
	if cfg.Upload.MaxSizeMB != 10 {
		t.Errorf("Upload.MaxSizeMB = %d, want default 10", cfg.Upload.MaxSizeMB)
	}
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/ficopilot.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}
