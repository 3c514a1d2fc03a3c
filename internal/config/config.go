// Package config handles configuration loading for stocksentiment.
// It supports YAML config files, a .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seenimoa/stocksentiment/internal/datasource"
)

// EnvPrefix is the prefix for environment overrides,
// e.g. STOCKSENTIMENT_API_PORT=9090.
const EnvPrefix = "STOCKSENTIMENT"

// Article count bounds accepted from users.
const (
	MinArticleCount = 1
	MaxArticleCount = 10
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the complete application configuration.
type Config struct {
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	Extract  ExtractConfig  `mapstructure:"extract"  yaml:"extract"`
	Cache    CacheConfig    `mapstructure:"cache"    yaml:"cache"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// NewsConfig holds news provider settings.
type NewsConfig struct {
	Providers         []string `mapstructure:"providers"           yaml:"providers"` // tried in order: "yahoo", "rss"
	DefaultCount      int      `mapstructure:"default_count"       yaml:"default_count"`
	MaxCount          int      `mapstructure:"max_count"           yaml:"max_count"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	YahooBaseURL      string   `mapstructure:"yahoo_base_url"      yaml:"yahoo_base_url"`
	RSSBaseURL        string   `mapstructure:"rss_base_url"        yaml:"rss_base_url"`
}

// ExtractConfig holds article scraping settings.
type ExtractConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`
	PreviewChars    int           `mapstructure:"preview_chars"    yaml:"preview_chars"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"   yaml:"max_body_bytes"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"` // "memory" or "redis"
	TTL     time.Duration `mapstructure:"ttl"     yaml:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"   yaml:"redis"`
}

// RedisConfig holds Redis connection settings for the shared cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"  yaml:"address"`
	Password string `mapstructure:"password" yaml:"password" json:"-"`
	DB       int    `mapstructure:"db"       yaml:"db"`
}

// AnalysisConfig holds watchlist refresh settings.
type AnalysisConfig struct {
	Watchlist       []string `mapstructure:"watchlist"        yaml:"watchlist"`
	RefreshSchedule string   `mapstructure:"refresh_schedule" yaml:"refresh_schedule"` // cron spec, empty disables
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	ServeUI     bool     `mapstructure:"serve_ui"     yaml:"serve_ui"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Addr returns the listen address for the API server.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stocksentiment/config.yaml (home directory)
//  3. /etc/stocksentiment/config.yaml (system)
//
// A .env file in the working directory is loaded first when present.
// Environment variables override config file values.
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stocksentiment"))
	v.AddConfigPath("/etc/stocksentiment")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	// News defaults
	v.SetDefault("news.providers", []string{"yahoo", "rss"})
	v.SetDefault("news.default_count", 5)
	v.SetDefault("news.max_count", MaxArticleCount)
	v.SetDefault("news.requests_per_second", 0.0) // 0 disables the limiter
	v.SetDefault("news.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("news.rss_base_url", "https://feeds.finance.yahoo.com")

	// Extraction defaults
	v.SetDefault("extract.timeout", 10*time.Second)
	v.SetDefault("extract.user_agent", datasource.DefaultUserAgent)
	v.SetDefault("extract.politeness_delay", 500*time.Millisecond)
	v.SetDefault("extract.preview_chars", 500)
	v.SetDefault("extract.max_body_bytes", 5<<20)

	// Cache defaults
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)

	// Analysis defaults
	v.SetDefault("analysis.watchlist", []string{})
	v.SetDefault("analysis.refresh_schedule", "")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.serve_ui", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if pw := os.Getenv("STOCKSENTIMENT_CACHE_REDIS_PASSWORD"); pw != "" {
		cfg.Cache.Redis.Password = pw
	}
}

// Validate checks value ranges that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.News.MaxCount < MinArticleCount || c.News.MaxCount > MaxArticleCount {
		return fmt.Errorf("news.max_count must be between %d and %d, got %d", MinArticleCount, MaxArticleCount, c.News.MaxCount)
	}
	if c.News.DefaultCount < MinArticleCount || c.News.DefaultCount > c.News.MaxCount {
		return fmt.Errorf("news.default_count must be between %d and %d, got %d", MinArticleCount, c.News.MaxCount, c.News.DefaultCount)
	}
	if len(c.News.Providers) == 0 {
		return errors.New("news.providers must name at least one provider")
	}
	if c.Extract.Timeout <= 0 {
		return fmt.Errorf("extract.timeout must be positive, got %s", c.Extract.Timeout)
	}
	if c.Extract.PolitenessDelay < 0 {
		return fmt.Errorf("extract.politeness_delay must not be negative, got %s", c.Extract.PolitenessDelay)
	}
	if c.Extract.PreviewChars <= 0 {
		return fmt.Errorf("extract.preview_chars must be positive, got %d", c.Extract.PreviewChars)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheMemory, CacheRedis, c.Cache.Backend)
	}
	return nil
}

// ClampCount bounds a requested article count to [1, news.max_count];
// zero selects news.default_count.
func (c *Config) ClampCount(n int) int {
	switch {
	case n == 0:
		return c.News.DefaultCount
	case n < MinArticleCount:
		return MinArticleCount
	case n > c.News.MaxCount:
		return c.News.MaxCount
	default:
		return n
	}
}

// loadDotEnv loads ./.env into the process environment when it exists.
// Existing environment variables are not overwritten.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
