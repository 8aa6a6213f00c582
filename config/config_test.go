package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DPM_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DPM_AUTOGEN_MOCK_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Autogen.Timezone != "America/New_York" {
		t.Errorf("Autogen.Timezone = %q, want America/New_York", cfg.Autogen.Timezone)
	}
	if !strings.Contains(cfg.Autogen.W2WURL, "whentowork.com") {
		t.Errorf("Autogen.W2WURL = %q, want the When2Work endpoint", cfg.Autogen.W2WURL)
	}
	if cfg.Mail.Workers != 3 {
		t.Errorf("Mail.Workers = %d, want 3", cfg.Mail.Workers)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("Auth.AccessTokenTTL = %s, want 15m", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Mail.Enabled || cfg.DataGen.Enabled {
		t.Error("mail and datagen default on, want off")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:  ServerConfig{Port: 8080},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
		Autogen: AutogenConfig{MockEnabled: true, Timezone: "America/New_York"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"live mode without w2w key", func(c *Config) { c.Autogen.MockEnabled = false }},
		{"bad timezone", func(c *Config) { c.Autogen.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
