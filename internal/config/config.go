package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/lattice-hq/sentinel/internal/token"
)

// Config holds all application configuration. It is loaded once at startup
// and passed into component constructors; nothing reads the environment
// after boot.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8000"`
	Env  string `envconfig:"ENV" default:"development"`

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Token signing configuration
	Token TokenConfig

	// Field cipher configuration
	CipherSecret string `envconfig:"CIPHER_SECRET" default:"default_cipher_secret"`

	// Password hashing cost configuration
	Hash HashConfig

	// CORS configuration
	CORS CORSConfig

	// Blockchain configuration
	Blockchain BlockchainConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"sentinel"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"require"`
}

// ConnectionString returns the PostgreSQL connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// TokenConfig holds the per-class signing secrets and lifetimes. Each class
// sources its key from its own variable; the defaults exist for local
// development only and are refused in production by Validate.
type TokenConfig struct {
	UserAccessSecret  string `envconfig:"USER_ACCESS_TOKEN" default:"default_user_access_token"`
	UserRefreshSecret string `envconfig:"USER_REFRESH_TOKEN" default:"default_user_refresh_token"`
	AdminSecret       string `envconfig:"ADMIN_SECRET_TOKEN" default:"default_admin_token"`
	WebAccessSecret   string `envconfig:"WEB_ACCESS_TOKEN" default:"default_web_token"`
	AppAccessSecret   string `envconfig:"APP_ACCESS_TOKEN" default:"default_app_token"`
	AppRefreshSecret  string `envconfig:"APP_REFRESH_TOKEN" default:"default_app_refresh_token"`

	UserAccessTTL  time.Duration `envconfig:"USER_ACCESS_TOKEN_TTL" default:"72h"`
	UserRefreshTTL time.Duration `envconfig:"USER_REFRESH_TOKEN_TTL" default:"2400h"`
	AdminAccessTTL time.Duration `envconfig:"ADMIN_ACCESS_TOKEN_TTL" default:"72h"`
	WebAccessTTL   time.Duration `envconfig:"WEB_ACCESS_TOKEN_TTL" default:"5m"`
	AppAccessTTL   time.Duration `envconfig:"APP_ACCESS_TOKEN_TTL" default:"6h"`
	AppRefreshTTL  time.Duration `envconfig:"APP_REFRESH_TOKEN_TTL" default:"72h"`
}

// Classes builds the immutable token class set from the configuration.
func (t TokenConfig) Classes() token.Classes {
	return token.Classes{
		UserAccess:  token.NewClass("user-access", t.UserAccessSecret, t.UserAccessTTL),
		UserRefresh: token.NewClass("user-refresh", t.UserRefreshSecret, t.UserRefreshTTL),
		AdminAccess: token.NewClass("admin-access", t.AdminSecret, t.AdminAccessTTL),
		WebAccess:   token.NewClass("web-access", t.WebAccessSecret, t.WebAccessTTL),
		AppAccess:   token.NewClass("app-access", t.AppAccessSecret, t.AppAccessTTL),
		AppRefresh:  token.NewClass("app-refresh", t.AppRefreshSecret, t.AppRefreshTTL),
	}
}

// tokenSecretDefaults mirrors the default tags above; Validate uses it to
// detect secrets that were never configured.
var tokenSecretDefaults = map[string]string{
	"USER_ACCESS_TOKEN":  "default_user_access_token",
	"USER_REFRESH_TOKEN": "default_user_refresh_token",
	"ADMIN_SECRET_TOKEN": "default_admin_token",
	"WEB_ACCESS_TOKEN":   "default_web_token",
	"APP_ACCESS_TOKEN":   "default_app_token",
	"APP_REFRESH_TOKEN":  "default_app_refresh_token",
}

// HashConfig holds the Argon2id cost parameters.
type HashConfig struct {
	TimeCost    uint32 `envconfig:"HASH_TIME_COST" default:"2"`
	MemoryKiB   uint32 `envconfig:"HASH_MEMORY_KIB" default:"65536"`
	Parallelism uint8  `envconfig:"HASH_PARALLELISM" default:"1"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// BlockchainConfig holds DEX quote configuration for BSC.
type BlockchainConfig struct {
	BSCRPCURL          string        `envconfig:"BSC_RPC_URL" default:"https://bsc-dataseed.binance.org"`
	PancakeFactory     string        `envconfig:"BSC_PANCAKE_FACTORY" default:"0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"`
	WBNBAddress        string        `envconfig:"BSC_WBNB_ADDRESS" default:"0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"`
	BUSDAddress        string        `envconfig:"BSC_BUSD_ADDRESS" default:"0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56"`
	QuoteCacheTTL      time.Duration `envconfig:"DEX_QUOTE_CACHE_TTL" default:"10s"`
	QuoteStreamPeriod  time.Duration `envconfig:"DEX_QUOTE_STREAM_PERIOD" default:"3s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the boot-time key hygiene rules. In production every
// token class secret must be explicitly configured and distinct: classes
// that share a key would accept each other's tokens.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}

	secrets := map[string]string{
		"USER_ACCESS_TOKEN":  c.Token.UserAccessSecret,
		"USER_REFRESH_TOKEN": c.Token.UserRefreshSecret,
		"ADMIN_SECRET_TOKEN": c.Token.AdminSecret,
		"WEB_ACCESS_TOKEN":   c.Token.WebAccessSecret,
		"APP_ACCESS_TOKEN":   c.Token.AppAccessSecret,
		"APP_REFRESH_TOKEN":  c.Token.AppRefreshSecret,
	}

	seen := make(map[string]string, len(secrets))
	for name, secret := range secrets {
		if secret == tokenSecretDefaults[name] {
			return fmt.Errorf("%s is not set; default signing secrets are not allowed in production", name)
		}
		if other, ok := seen[secret]; ok {
			return fmt.Errorf("%s and %s share a signing secret; token classes must have independent keys", name, other)
		}
		seen[secret] = name
	}

	if c.CipherSecret == "default_cipher_secret" {
		return fmt.Errorf("CIPHER_SECRET is not set; the default cipher secret is not allowed in production")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
