package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable read by Genesis.
const EnvPrefix = "GENESIS_"

// ErrNilConfig is returned when a nil config is used.
var ErrNilConfig = errors.New("nil config")

// CORSConfig is the CORS configuration for the HTTP server.
type CORSConfig struct {
	AllowedHeaders []string `env:"ALLOWED_HEADERS" yaml:"allowed_headers"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	AllowedMethods []string `env:"ALLOWED_METHODS" yaml:"allowed_methods"`
}

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`

	// SecureCookies marks session cookies as Secure. Enable this when the
	// server is reachable over HTTPS only.
	SecureCookies bool `env:"SECURE_COOKIES" yaml:"secure_cookies"`

	// CORS is the CORS configuration.
	CORS CORSConfig `envPrefix:"CORS_" yaml:"cors"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	// An empty address disables the stats server.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// AuthConfig holds the credential settings.
type AuthConfig struct {
	// Secret is the key used to sign session tokens and cookies.
	// When empty, a random secret is generated at startup.
	Secret string `env:"SECRET" yaml:"secret,omitempty"`

	// SessionTTL is the lifetime of a session cookie.
	SessionTTL time.Duration `env:"SESSION_TTL" yaml:"session_ttl"`

	// PendingTTL is the lifetime of the cookie that remembers which email
	// is waiting for a login code.
	PendingTTL time.Duration `env:"PENDING_TTL" yaml:"pending_ttl"`

	// BearerTTL is the lifetime of bearer tokens handed to API clients.
	BearerTTL time.Duration `env:"BEARER_TTL" yaml:"bearer_ttl"`

	// CodeTTL is the lifetime of a one-time login code.
	CodeTTL time.Duration `env:"CODE_TTL" yaml:"code_ttl"`
}

// MailConfig configures login code delivery.
type MailConfig struct {
	// Driver is either "log" or "resend".
	Driver string `env:"DRIVER" yaml:"driver"`

	// From is the sender address.
	From string `env:"FROM" yaml:"from"`

	// APIKey is the Resend API key.
	APIKey string `env:"API_KEY" yaml:"api_key,omitempty"`

	// Endpoint is the Resend API endpoint.
	Endpoint string `env:"ENDPOINT" yaml:"endpoint"`
}

// PlansConfig holds the membership plan limits.
type PlansConfig struct {
	// FreeTreeLimit is the number of trees a free user can own.
	// Zero removes the limit.
	FreeTreeLimit int `env:"FREE_TREE_LIMIT" yaml:"free_tree_limit"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	PurgeLoginCodes string `env:"PURGE_LOGIN_CODES" yaml:"purge_login_codes"`
}

// Config is the configuration for Genesis.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Auth is the credential configuration.
	Auth AuthConfig `envPrefix:"AUTH_" yaml:"auth"`

	// Mail is the login code delivery configuration.
	Mail MailConfig `envPrefix:"MAIL_" yaml:"mail"`

	// Plans is the membership plan configuration.
	Plans PlansConfig `envPrefix:"PLANS_" yaml:"plans"`

	// Jobs is the configuration for cron jobs
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// DataPath is the path to the directory where Genesis will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv(EnvPrefix + "DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv(EnvPrefix + "VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	// Keep origins from the config file, environment origins are appended.
	origins := append([]string{}, cfg.HTTP.CORS.AllowedOrigins...)

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: EnvPrefix,
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	if os.Getenv(EnvPrefix+"HTTP_CORS_ALLOWED_ORIGINS") != "" {
		cfg.HTTP.CORS.AllowedOrigins = append(origins, cfg.HTTP.CORS.AllowedOrigins...)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o600) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the GENESIS_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv(EnvPrefix + "DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file.
// GENESIS_CONFIG_LOCATION wins over the data directory when it points to an
// existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv(EnvPrefix + "CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	cfg := &Config{
		Name:     "Genesis",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			ListenAddr: ":8080",
			PublicURL:  "http://localhost:8080",
			CORS: CORSConfig{
				AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
				AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE"},
			},
		},
		Stats: StatsConfig{
			ListenAddr: "localhost:8081",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "genesis.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		Auth: AuthConfig{
			SessionTTL: 14 * 24 * time.Hour,
			PendingTTL: 10 * time.Minute,
			BearerTTL:  7 * 24 * time.Hour,
			CodeTTL:    10 * time.Minute,
		},
		Mail: MailConfig{
			Driver:   "log",
			From:     "Genesis <no-reply@localhost>",
			Endpoint: "https://api.resend.com/emails",
		},
		Plans: PlansConfig{
			FreeTreeLimit: 3,
		},
		Jobs: JobsConfig{
			PurgeLoginCodes: "@every 1h",
		},
	}
	cfg.HTTP.CORS.AllowedOrigins = []string{cfg.HTTP.PublicURL}
	return cfg
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}

	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(c.DataPath, c.Log.Path)
	}

	for name, ttl := range map[string]time.Duration{
		"session_ttl": c.Auth.SessionTTL,
		"pending_ttl": c.Auth.PendingTTL,
		"bearer_ttl":  c.Auth.BearerTTL,
		"code_ttl":    c.Auth.CodeTTL,
	} {
		if ttl < 0 {
			return fmt.Errorf("auth.%s must not be negative: %s", name, ttl)
		}
	}

	switch c.Mail.Driver {
	case "", "log":
	case "resend":
		if c.Mail.APIKey == "" {
			return fmt.Errorf("mail.api_key is required by the resend driver")
		}
	default:
		return fmt.Errorf("unknown mail driver %q", c.Mail.Driver)
	}

	if c.Plans.FreeTreeLimit < 0 {
		return fmt.Errorf("plans.free_tree_limit must not be negative")
	}

	return nil
}

// EnsureSecret makes sure the config carries a signing secret. When none is
// configured a random one is generated and generated is true. A generated
// secret only lives as long as the process, so every restart invalidates
// outstanding sessions and every instance signs with a different key.
func (c *Config) EnsureSecret() (generated bool, err error) {
	if c == nil {
		return false, ErrNilConfig
	}
	if c.Auth.Secret != "" {
		return false, nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return false, fmt.Errorf("generate secret: %w", err)
	}

	c.Auth.Secret = hex.EncodeToString(b)
	return true, nil
}
