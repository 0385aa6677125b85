package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	logpkg "github.com/kailas-cloud/solrsvc/internal/logger"
)

// Config holds the solrsvc configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Solr     SolrConfig     `yaml:"solr"`
	Resource ResourceConfig `yaml:"resource"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	AdminKeys []string `yaml:"admin_keys"` // required for POST /admin/* when set
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds the Solr core connection settings.
type SolrConfig struct {
	CoreURL          string `yaml:"core_url"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// PaginateConfig holds page size limits. Both zero disables pagination.
type PaginateConfig struct {
	Default int `yaml:"default"`
	Max     int `yaml:"max"`
}

// ResourceConfig holds the resource service behavior.
type ResourceConfig struct {
	Name     string         `yaml:"name"`
	Paginate PaginateConfig `yaml:"paginate"`
	Multi    []string       `yaml:"multi"`  // create, remove
	Events   []string       `yaml:"events"` // custom event names
}

// EventsConfig holds the Redis event publisher settings.
type EventsConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis pub/sub settings. Empty addrs disables publishing.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ChannelPrefix    string   `yaml:"channel_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether Redis publishing is configured.
func (r RedisConfig) Enabled() bool { return len(r.Addrs) > 0 }

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // host:port of the OTLP/HTTP collector
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

var multiOps = map[string]bool{"create": true, "remove": true}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 30
	}
	if c.Solr.ReadinessTimeout <= 0 {
		c.Solr.ReadinessTimeout = 10
	}
	if c.Resource.Name == "" {
		c.Resource.Name = "documents"
	}
	if c.Events.Redis.ChannelPrefix == "" {
		c.Events.Redis.ChannelPrefix = "solrsvc:"
	}
	if c.Events.Redis.ReadinessTimeout <= 0 {
		c.Events.Redis.ReadinessTimeout = 10
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "solrsvc"
	}
	if c.Tracing.SampleRatio <= 0 {
		c.Tracing.SampleRatio = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if strings.TrimSpace(c.Solr.CoreURL) == "" {
		return fmt.Errorf("solr.core_url is required")
	}
	p := c.Resource.Paginate
	if p.Default < 0 || p.Max < 0 {
		return fmt.Errorf("resource.paginate values must be >= 0, got default=%d max=%d", p.Default, p.Max)
	}
	for _, op := range c.Resource.Multi {
		if !multiOps[op] {
			return fmt.Errorf("resource.multi entries must be \"create\" or \"remove\", got %q", op)
		}
	}
	for _, name := range c.Resource.Events {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("resource.events must not contain empty names")
		}
	}
	if c.Logging.Level != "" {
		if _, err := logpkg.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be in (0, 1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
