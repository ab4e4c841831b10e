package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q", cfg.DataBackend)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.PhotoMaxEdge != 800 || cfg.PhotoMaxEncoded != 50000 {
		t.Errorf("photo policy = %d/%d", cfg.PhotoMaxEdge, cfg.PhotoMaxEncoded)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sheets")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("ANNIVERSARY_DATE", "2024-02-14")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DataBackend != "sheets" {
		t.Errorf("DataBackend = %q", cfg.DataBackend)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	anniversary, err := cfg.Anniversary()
	if err != nil {
		t.Fatalf("Anniversary: %v", err)
	}
	if anniversary.Year() != 2024 || anniversary.Month() != time.February {
		t.Errorf("anniversary = %v", anniversary)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "invalid AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"sheets without spreadsheet", func(c *Config) { c.DataBackend = "sheets" }, "Spreadsheet ID is required"},
		{"tiny ttl", func(c *Config) { c.CacheTTL = 100 * time.Millisecond }, "invalid cache TTL"},
		{"bad anniversary", func(c *Config) { c.AnniversaryDate = "July 4th" }, "invalid anniversary date"},
		{"tiny photo edge", func(c *Config) { c.PhotoMaxEdge = 10 }, "invalid photo max edge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Load()
	cfg.Port = "nope"
	cfg.DataBackend = "postgres"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid port") || !strings.Contains(msg, "invalid data backend") {
		t.Errorf("error should report every problem, got %q", msg)
	}
}
