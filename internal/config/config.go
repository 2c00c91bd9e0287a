// Package config assembles a models.Config from defaults, a YAML file, a
// .env file, PHISHGUARD_* environment variables and command line flags, in
// that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Sla0ui/phishguard/internal/models"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PHISHGUARD_"

// DefaultEnvFile is read when Options.EnvFile is empty. It is optional.
const DefaultEnvFile = ".env"

// Options selects the sources Load reads.
type Options struct {
	// ConfigFile is a YAML file. Empty means PHISHGUARD_CONFIG, then none.
	ConfigFile string
	// EnvFile is a dotenv file. Empty means DefaultEnvFile if present.
	EnvFile string
	// Flags are applied last, and only those explicitly set.
	Flags *pflag.FlagSet
}

type binding struct {
	flag  string
	env   string
	apply func(cfg *models.Config, value string) error
}

var bindings = []binding{
	{"api-url", "API_URL", setString(func(c *models.Config) *string { return &c.APIURL })},
	{"timeout", "TIMEOUT", setDuration(func(c *models.Config) *time.Duration { return &c.Timeout })},
	{"verify-tls", "VERIFY_TLS", setBool(func(c *models.Config) *bool { return &c.VerifyTLS })},
	{"user-agent", "USER_AGENT", setString(func(c *models.Config) *string { return &c.UserAgent })},
	{"platform", "PLATFORM", setString(func(c *models.Config) *string { return &c.PlatformHint })},
	{"copy-feedback", "COPY_FEEDBACK", setDuration(func(c *models.Config) *time.Duration { return &c.CopyFeedback })},
	{"concurrency", "CONCURRENCY", setInt(func(c *models.Config) *int { return &c.Concurrency })},
	{"output-dir", "OUTPUT_DIR", setString(func(c *models.Config) *string { return &c.OutputDir })},
	{"output-format", "OUTPUT_FORMAT", setString(func(c *models.Config) *string { return &c.OutputFormat })},
	{"export", "EXPORT", setString(func(c *models.Config) *string { return &c.ExportPath })},
	{"format", "FORMAT", setString(func(c *models.Config) *string { return &c.Format })},
	{"verbose", "VERBOSE", setBool(func(c *models.Config) *bool { return &c.LogVerbose })},
	{"no-color", "NO_COLOR", setBool(func(c *models.Config) *bool { return &c.NoColor })},
	{"quiet", "QUIET", setBool(func(c *models.Config) *bool { return &c.Quiet })},
	{"no-progress", "NO_PROGRESS", setBool(func(c *models.Config) *bool { return &c.NoProgress })},
	{"browser-timeout", "BROWSER_TIMEOUT", setDuration(func(c *models.Config) *time.Duration { return &c.BrowserTimeout })},
	{"addr", "STUB_ADDR", setString(func(c *models.Config) *string { return &c.StubAddr })},
	{"fixture", "STUB_FIXTURE", setString(func(c *models.Config) *string { return &c.StubFixturePath })},
}

// Load builds and validates the effective configuration.
func Load(opts Options) (*models.Config, error) {
	cfg := models.DefaultConfig()

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	for _, b := range bindings {
		key := EnvPrefix + b.env
		value, ok := os.LookupEnv(key)
		if !ok {
			value, ok = dotenv[key]
		}
		if !ok || value == "" {
			continue
		}
		if err := b.apply(cfg, value); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	if opts.Flags != nil {
		for _, b := range bindings {
			f := opts.Flags.Lookup(b.flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := b.apply(cfg, f.Value.String()); err != nil {
				return nil, fmt.Errorf("invalid --%s: %w", b.flag, err)
			}
		}
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.PlatformHint = strings.ToLower(strings.TrimSpace(cfg.PlatformHint))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *models.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return values, nil
}

func setString(field func(*models.Config) *string) func(*models.Config, string) error {
	return func(c *models.Config, v string) error {
		*field(c) = v
		return nil
	}
}

func setBool(field func(*models.Config) *bool) func(*models.Config, string) error {
	return func(c *models.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func setInt(field func(*models.Config) *int) func(*models.Config, string) error {
	return func(c *models.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func setDuration(field func(*models.Config) *time.Duration) func(*models.Config, string) error {
	return func(c *models.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}
