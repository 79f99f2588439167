package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ddns "github.com/ivo-tech/cloudflare-ddns"
)

// CloudflareConfig holds the API settings and the credentials for the managed record.
type CloudflareConfig struct {
	ZoneID   string        `mapstructure:"zone_id"`
	RecordID string        `mapstructure:"record_id"`
	Token    string        `mapstructure:"token"`
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RecordConfig describes the record content other than the address.
type RecordConfig struct {
	Name    string `mapstructure:"name"`
	TTL     int    `mapstructure:"ttl"`
	Proxied bool   `mapstructure:"proxied"`
}

// ResolverConfig holds the public IP sources.
type ResolverConfig struct {
	TraceURL string        `mapstructure:"trace_url"`
	PlainURL string        `mapstructure:"plain_url"`
	OpenDNS  bool          `mapstructure:"opendns"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config is the top-level configuration struct.
type Config struct {
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Record     RecordConfig     `mapstructure:"record"`
	Resolver   ResolverConfig   `mapstructure:"resolver"`
	Logging    LoggingConfig    `mapstructure:"log"`
}

// envBindings maps configuration keys to the environment variables that set them.
var envBindings = map[string]string{
	"cloudflare.zone_id":   "CF_ZONE_ID",
	"cloudflare.record_id": "DYN_ID",
	"cloudflare.token":     "CF_DNS_TOKEN",
	"cloudflare.api_url":   "CF_API_URL",
	"cloudflare.timeout":   "CF_API_TIMEOUT",
	"record.name":          "DDNS_RECORD_NAME",
	"record.ttl":           "DDNS_RECORD_TTL",
	"record.proxied":       "DDNS_RECORD_PROXIED",
	"resolver.trace_url":   "DDNS_TRACE_URL",
	"resolver.plain_url":   "DDNS_PLAIN_URL",
	"resolver.opendns":     "DDNS_OPENDNS",
	"resolver.timeout":     "DDNS_RESOLVER_TIMEOUT",
	"log.level":            "DDNS_LOG_LEVEL",
	"log.file":             "DDNS_LOG_FILE",
}

// CredentialEnv lists the environment variables holding the credentials, for error messages.
const CredentialEnv = "CF_ZONE_ID, DYN_ID, CF_DNS_TOKEN"

const DefaultLogFile = "/var/log/cloudflare-ddns.log"

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cloudflare.api_url", ddns.DefaultAPIURL)
	v.SetDefault("cloudflare.timeout", ddns.DefaultAPITimeout)
	v.SetDefault("record.name", "ivo-tech.com")
	v.SetDefault("record.ttl", ddns.DefaultTTL)
	v.SetDefault("record.proxied", ddns.DefaultProxied)
	v.SetDefault("resolver.trace_url", ddns.DefaultTraceURL)
	v.SetDefault("resolver.plain_url", ddns.DefaultPlainURL)
	v.SetDefault("resolver.opendns", false)
	v.SetDefault("resolver.timeout", ddns.DefaultSourceTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", DefaultLogFile)
}

// Load applies the optional env file, binds environment variables,
// reads the optional config file and unmarshals everything into a Config.
//
// Missing credentials are not an error here;
// the provider reports them when a run is attempted.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	SetDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Record.Name == "" {
		return errors.New("record name cannot be empty")
	}
	if !strings.Contains(c.Record.Name, ".") {
		return errors.New("record name must have at least one dot")
	}
	if c.Record.TTL < 1 {
		return fmt.Errorf("invalid record TTL %d", c.Record.TTL)
	}
	if c.Cloudflare.Timeout <= 0 || c.Resolver.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// Credentials returns the provider credentials. They may be incomplete.
func (c *Config) Credentials() ddns.Credentials {
	return ddns.Credentials{
		ZoneID:   strings.TrimSpace(c.Cloudflare.ZoneID),
		RecordID: strings.TrimSpace(c.Cloudflare.RecordID),
		Token:    strings.TrimSpace(c.Cloudflare.Token),
	}
}

// loadEnvFile loads variables from path into the process environment without overriding variables already set.
// An explicitly named file must exist and be private to its owner because it holds the API token.
// With no path, a .env file in the working directory is used if there is one.
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading .env: %w", err)
		}
		return nil
	}
	if err := VerifyPermissions(path); err != nil {
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error reading env file: %w", err)
	}
	return nil
}

// VerifyPermissions returns an error unless path is readable only by its owner.
func VerifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking env file permissions: %w", err)
	}
	if runtime.GOOS == "windows" {
		return nil
	}

	perms := info.Mode().Perm()
	// Error messages will state that we want 0600,
	// but we'll also accept 0400 which is even more restricted.
	// The file might be provided by some secrets managing software as readonly.
	if perms != 0600 && perms != 0400 {
		return fmt.Errorf("invalid permissions for \"%s\": expected file permissions \"-rw-------\"; found \"%s\"", path, fs.FileMode(perms))
	}
	return nil
}
