package models

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.CopyFeedback != 2*time.Second {
		t.Errorf("Expected CopyFeedback=2s, got %v", config.CopyFeedback)
	}

	if !config.VerifyTLS {
		t.Error("Expected VerifyTLS=true by default for security")
	}

	if config.PlatformHint != PlatformOther {
		t.Errorf("Expected PlatformHint=%q, got %q", PlatformOther, config.PlatformHint)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func(mutate func(c *Config)) *Config {
		c := DefaultConfig()
		mutate(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "empty api url",
			config:  valid(func(c *Config) { c.APIURL = " " }),
			wantErr: true,
		},
		{
			name:    "relative api url",
			config:  valid(func(c *Config) { c.APIURL = "/api" }),
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			config:  valid(func(c *Config) { c.APIURL = "ftp://example.com" }),
			wantErr: true,
		},
		{
			name:    "invalid timeout",
			config:  valid(func(c *Config) { c.Timeout = 500 * time.Millisecond }),
			wantErr: true,
		},
		{
			name:    "invalid concurrency (too low)",
			config:  valid(func(c *Config) { c.Concurrency = 0 }),
			wantErr: true,
		},
		{
			name:    "invalid concurrency (too high)",
			config:  valid(func(c *Config) { c.Concurrency = 33 }),
			wantErr: true,
		},
		{
			name:    "zero copy feedback",
			config:  valid(func(c *Config) { c.CopyFeedback = 0 }),
			wantErr: true,
		},
		{
			name:    "empty output directory",
			config:  valid(func(c *Config) { c.OutputDir = "" }),
			wantErr: true,
		},
		{
			name:    "unknown format",
			config:  valid(func(c *Config) { c.Format = "xml" }),
			wantErr: true,
		},
		{
			name:    "json format",
			config:  valid(func(c *Config) { c.Format = "json" }),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	original := DefaultConfig()

	clone := original.Clone()

	clone.APIURL = "https://other.example"
	clone.Concurrency = 10

	if original.APIURL != "http://127.0.0.1:5001" {
		t.Errorf("Clone modified original APIURL")
	}
	if original.Concurrency != 2 {
		t.Errorf("Clone modified original Concurrency")
	}
}
