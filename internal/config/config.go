package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/caselens/internal/domain"
)

// Config holds the caselens configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	Search   SearchConfig   `yaml:"search"`
	Features FeaturesConfig `yaml:"features"`
	Answer   AnswerConfig   `yaml:"answer"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig holds the remote search backend settings.
type BackendConfig struct {
	BaseURL         string `yaml:"base_url"`
	APITimeoutMs    int    `yaml:"api_timeout_ms"`
	SearchTimeoutMs int    `yaml:"search_timeout_ms"`
	RetryAttempts   *int   `yaml:"retry_attempts"`
	RetryDelayMs    int    `yaml:"retry_delay_ms"`
	StorageScheme   string `yaml:"storage_scheme"`
}

// SearchConfig holds batch, paging and session settings.
type SearchConfig struct {
	CachePageSize     int `yaml:"cache_page_size"`
	DisplayPageSize   int `yaml:"display_page_size"`
	AnswerContextSize int `yaml:"answer_context_size"`
	SessionIdleTTLSec int `yaml:"session_idle_ttl_sec"`
	MaxSessions       int `yaml:"max_sessions"`
}

// FeaturesConfig holds feature flags.
type FeaturesConfig struct {
	AIAnswers    *bool `yaml:"ai_answers"`
	AsyncAnswers *bool `yaml:"async_answers"`
}

// AnswerConfig selects the AI answer provider.
type AnswerConfig struct {
	Provider  string `yaml:"provider"` // backend (default) | openai
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// CacheConfig holds the case lookup cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none (default), valkey, redis
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	CaseTTLSec       int      `yaml:"case_ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Answer providers.
const (
	ProviderBackend = "backend"
	ProviderOpenAI  = "openai"
)

// Cache drivers.
const (
	DriverNone   = "none"
	DriverValkey = "valkey"
	DriverRedis  = "redis"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, substituting ${VAR} and ${VAR:-default}
// references, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Backend.APITimeoutMs <= 0 {
		c.Backend.APITimeoutMs = 30000
	}
	if c.Backend.SearchTimeoutMs <= 0 {
		c.Backend.SearchTimeoutMs = 15000
	}
	if c.Backend.RetryAttempts == nil {
		n := 2
		c.Backend.RetryAttempts = &n
	}
	if c.Backend.RetryDelayMs <= 0 {
		c.Backend.RetryDelayMs = 200
	}
	if c.Backend.StorageScheme == "" {
		c.Backend.StorageScheme = "gs://"
	}

	def := domain.DefaultSearchConfig()
	if c.Search.CachePageSize <= 0 {
		c.Search.CachePageSize = def.CachePageSize
	}
	if c.Search.DisplayPageSize <= 0 {
		c.Search.DisplayPageSize = def.DisplayPageSize
	}
	if c.Search.AnswerContextSize <= 0 {
		c.Search.AnswerContextSize = def.AnswerContextSize
	}
	if c.Search.SessionIdleTTLSec <= 0 {
		c.Search.SessionIdleTTLSec = 1800
	}
	if c.Search.MaxSessions <= 0 {
		c.Search.MaxSessions = 1000
	}

	if c.Features.AIAnswers == nil {
		v := true
		c.Features.AIAnswers = &v
	}
	if c.Features.AsyncAnswers == nil {
		v := true
		c.Features.AsyncAnswers = &v
	}

	if c.Answer.Provider == "" {
		c.Answer.Provider = ProviderBackend
	}
	if c.Answer.TimeoutMs <= 0 {
		c.Answer.TimeoutMs = 60000
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = DriverNone
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "caselens:"
	}
	if c.Cache.CaseTTLSec <= 0 {
		c.Cache.CaseTTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.RetryAttempts != nil && *c.Backend.RetryAttempts < 0 {
		return fmt.Errorf("backend.retry_attempts must not be negative, got %d", *c.Backend.RetryAttempts)
	}
	if c.Search.DisplayPageSize > c.Search.CachePageSize {
		return fmt.Errorf(
			"search.display_page_size (%d) must not exceed search.cache_page_size (%d)",
			c.Search.DisplayPageSize, c.Search.CachePageSize,
		)
	}
	switch c.Cache.Driver {
	case DriverNone:
	case DriverValkey, DriverRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"valkey\" or \"redis\", got %q", c.Cache.Driver)
	}
	switch c.Answer.Provider {
	case ProviderBackend:
	case ProviderOpenAI:
		if c.Answer.Model == "" {
			return fmt.Errorf("answer.model is required for provider %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("answer.provider must be \"backend\" or \"openai\", got %q", c.Answer.Provider)
	}
	return nil
}

// AIAnswersEnabled reports whether AI answers are generated after a search.
func (c *Config) AIAnswersEnabled() bool { return c.Features.AIAnswers == nil || *c.Features.AIAnswers }

// AsyncAnswersEnabled reports whether answers are generated in the background.
func (c *Config) AsyncAnswersEnabled() bool {
	return c.Features.AsyncAnswers == nil || *c.Features.AsyncAnswers
}

// APITimeout returns the timeout for non-search backend calls.
func (b BackendConfig) APITimeout() time.Duration {
	return time.Duration(b.APITimeoutMs) * time.Millisecond
}

// SearchTimeout returns the timeout for backend search calls.
func (b BackendConfig) SearchTimeout() time.Duration {
	return time.Duration(b.SearchTimeoutMs) * time.Millisecond
}

// RetryDelay returns the initial backoff between retries.
func (b BackendConfig) RetryDelay() time.Duration {
	return time.Duration(b.RetryDelayMs) * time.Millisecond
}

// Retries returns the number of retries after the first attempt.
func (b BackendConfig) Retries() uint {
	if b.RetryAttempts == nil || *b.RetryAttempts < 0 {
		return 0
	}
	return uint(*b.RetryAttempts)
}

// DomainSearch converts the search section to the orchestrator sizes.
func (s SearchConfig) DomainSearch() domain.SearchConfig {
	return domain.SearchConfig{
		CachePageSize:     s.CachePageSize,
		DisplayPageSize:   s.DisplayPageSize,
		AnswerContextSize: s.AnswerContextSize,
	}
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
