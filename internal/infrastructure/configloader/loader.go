package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "config/config.yml"

const defaultPriceCacheTTLSeconds = 60

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	CORSOrigins         []string `yaml:"corsOrigins"`
}

// DatabaseConfig holds datastore configuration.
type DatabaseConfig struct {
	URL                 string `yaml:"url"`
	MaxConns            int32  `yaml:"maxConns"`
	MinConns            int32  `yaml:"minConns"`
	QueryTimeoutSeconds int    `yaml:"queryTimeoutSeconds"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ExplorerConfig holds the Etherscan-family API settings shared by all networks.
type ExplorerConfig struct {
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RequestsPerSecond    float64 `yaml:"requestsPerSecond"`
	Burst                int     `yaml:"burst"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	VsCurrency           string `yaml:"vsCurrency"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	// CacheTTLSeconds of 0 disables the price cache. Unset or negative selects the default.
	CacheTTLSeconds *int `yaml:"cacheTTLSeconds"`
}

// GeoConfig holds the IP geolocation API settings.
type GeoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RateLimitConfig holds the per-account request limiter settings.
type RateLimitConfig struct {
	Disabled      bool `yaml:"disabled"`
	MaxRequests   int  `yaml:"maxRequests"`
	WindowMinutes int  `yaml:"windowMinutes"`
}

// RedisConfig selects the Redis backend of the rate limiter. Empty Addr selects the in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NetworkNodeConfig overrides endpoint settings of a built-in network.
type NetworkNodeConfig struct {
	ChainID          uint64  `yaml:"chainID"`
	ExplorerAPIURL   string  `yaml:"explorerApiURL"`
	ExplorerAPIKey   string  `yaml:"explorerApiKey"`
	BlockExplorerURL string  `yaml:"blockExplorerURL"`
	FallbackPriceUSD float64 `yaml:"fallbackPriceUSD"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Database  DatabaseConfig      `yaml:"database"`
	Auth      AuthConfig          `yaml:"auth"`
	Logging   LoggingConfig       `yaml:"logging"`
	Explorer  ExplorerConfig      `yaml:"explorer"`
	CoinGecko CoinGeckoConfig     `yaml:"coingecko"`
	Geo       GeoConfig           `yaml:"geo"`
	RateLimit RateLimitConfig     `yaml:"rateLimit"`
	Redis     RedisConfig         `yaml:"redis"`
	Networks  []NetworkNodeConfig `yaml:"networks"`
}

// Load reads .env, the YAML file at path and the environment, in that order of precedence
// from lowest to highest, then fills in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	if path == "" {
		path = envOr("CONFIG_PATH", DefaultPath)
	}

	var cfg Config
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	if err := ApplyEnvironment(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		logrus.Errorf("Invalid configuration in %s: %v", path, err)
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// ApplyEnvironment overlays the supported environment variables onto cfg.
func ApplyEnvironment(cfg *Config) error {
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Explorer.APIKey, "ETHERSCAN_API_KEY")
	setString(&cfg.CoinGecko.APIKey, "COINGECKO_API_KEY")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Logging.Level, "LOG_LEVEL")

	if v, ok := os.LookupEnv("RATE_LIMIT_DISABLED"); ok && v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_DISABLED %q: %w", v, err)
		}
		cfg.RateLimit.Disabled = disabled
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	cfg.Server.Port = strings.TrimPrefix(cfg.Server.Port, ":")
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.QueryTimeoutSeconds <= 0 {
		cfg.Database.QueryTimeoutSeconds = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Explorer.RequestTimeoutMillis <= 0 {
		cfg.Explorer.RequestTimeoutMillis = 10000
		logrus.Infof("Explorer.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Explorer.RequestTimeoutMillis)
	}
	if cfg.Explorer.RequestsPerSecond <= 0 {
		cfg.Explorer.RequestsPerSecond = 5
	}
	if cfg.Explorer.Burst <= 0 {
		cfg.Explorer.Burst = 1
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	cfg.CoinGecko.BaseURL = strings.TrimRight(cfg.CoinGecko.BaseURL, "/")
	cfg.CoinGecko.VsCurrency = strings.ToLower(strings.TrimSpace(cfg.CoinGecko.VsCurrency))
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = cfg.Explorer.RequestTimeoutMillis
	}
	if cfg.CoinGecko.CacheTTLSeconds == nil || *cfg.CoinGecko.CacheTTLSeconds < 0 {
		ttl := defaultPriceCacheTTLSeconds
		cfg.CoinGecko.CacheTTLSeconds = &ttl
		logrus.Infof("CoinGecko.CacheTTLSeconds not set, defaulting to %d seconds", ttl)
	}

	if cfg.Geo.BaseURL == "" {
		cfg.Geo.BaseURL = "https://ipapi.co"
	}
	cfg.Geo.BaseURL = strings.TrimRight(cfg.Geo.BaseURL, "/")
	if cfg.Geo.RequestTimeoutMillis <= 0 {
		cfg.Geo.RequestTimeoutMillis = 5000
	}

	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 100
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = 60
	}
}

// validate rejects settings the services cannot honour.
func validate(cfg *Config) error {
	// Fallback prices and the balance_usd column are USD.
	if cfg.CoinGecko.VsCurrency != "usd" {
		return fmt.Errorf("unsupported coingecko.vsCurrency %q: only usd is supported", cfg.CoinGecko.VsCurrency)
	}
	return nil
}

// MissingRequired lists the required settings that are empty. The server still starts
// without them but reports unhealthy.
func (c *Config) MissingRequired() []string {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

// ExplorerTimeout is the bound of a single explorer request.
func (c *Config) ExplorerTimeout() time.Duration {
	return time.Duration(c.Explorer.RequestTimeoutMillis) * time.Millisecond
}

// PriceCacheTTL is the price cache lifetime; zero disables caching.
func (c *Config) PriceCacheTTL() time.Duration {
	if c.CoinGecko.CacheTTLSeconds == nil {
		return defaultPriceCacheTTLSeconds * time.Second
	}
	return time.Duration(*c.CoinGecko.CacheTTLSeconds) * time.Second
}

// RateLimitWindow is the fixed-window length.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowMinutes) * time.Minute
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
