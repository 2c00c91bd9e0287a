package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all configuration options for phishguard
type Config struct {
	APIURL          string        `yaml:"api_url"`
	Timeout         time.Duration `yaml:"timeout"`
	VerifyTLS       bool          `yaml:"verify_tls"`
	UserAgent       string        `yaml:"user_agent"`
	PlatformHint    string        `yaml:"platform_hint"`
	CopyFeedback    time.Duration `yaml:"copy_feedback"`
	Concurrency     int           `yaml:"concurrency"`
	OutputDir       string        `yaml:"output_dir"`
	OutputFormat    string        `yaml:"output_format"`
	ExportPath      string        `yaml:"export_path"`
	Format          string        `yaml:"format"`
	LogVerbose      bool          `yaml:"verbose"`
	NoColor         bool          `yaml:"no_color"`
	Quiet           bool          `yaml:"quiet"`
	NoProgress      bool          `yaml:"no_progress"`
	BrowserTimeout  time.Duration `yaml:"browser_timeout"`
	StubAddr        string        `yaml:"stub_addr"`
	StubFixturePath string        `yaml:"stub_fixture"`
}

// Validate checks if the configuration is valid and returns an error if not
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api url cannot be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api url must be an absolute http(s) url, got %q", c.APIURL)
	}
	if c.Timeout < 1*time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Concurrency > 32 {
		return fmt.Errorf("concurrency cannot exceed 32, got %d", c.Concurrency)
	}
	if c.CopyFeedback <= 0 {
		return fmt.Errorf("copy feedback window must be positive, got %v", c.CopyFeedback)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", c.Format)
	}
	return nil
}

// Clone creates a copy of the config so workers never share a mutable instance
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIURL:          "http://127.0.0.1:5001",
		Timeout:         30 * time.Second,
		VerifyTLS:       true,
		UserAgent:       "phishguard-cli/1.0 (+https://github.com/Sla0ui/phishguard)",
		PlatformHint:    PlatformOther,
		CopyFeedback:    2 * time.Second,
		Concurrency:     2,
		OutputDir:       "results",
		OutputFormat:    "json",
		ExportPath:      "",
		Format:          "text",
		LogVerbose:      false,
		NoColor:         false,
		Quiet:           false,
		NoProgress:      false,
		BrowserTimeout:  30 * time.Second,
		StubAddr:        "127.0.0.1:5001",
		StubFixturePath: "",
	}
}
