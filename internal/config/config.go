package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Scanners  ScannersConfig  `mapstructure:"scanners"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Schema          string        `mapstructure:"schema"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ProvidersConfig lists the language model backends the gateway can
// route to, in fallback order. The local knowledge base needs no
// configuration and is always appended last.
type ProvidersConfig struct {
	Order     []string       `mapstructure:"order"`
	Preferred string         `mapstructure:"preferred"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	MaxTokens int            `mapstructure:"max_tokens"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Gemini    ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type MemoryConfig struct {
	Backend    string        `mapstructure:"backend"` // "memory", "redis" or "postgres"
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type ScannersConfig struct {
	Link  LinkScannerConfig `mapstructure:"link"`
	Email ScannerConfig     `mapstructure:"email"`
	Logs  LogScannerConfig  `mapstructure:"logs"`
}

type ScannerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LinkScannerConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	ExtraTrusted    []string `mapstructure:"extra_trusted"`
	ExtraSuspicious []string `mapstructure:"extra_suspicious_tlds"`
}

type LogScannerConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	FailedAuthWindow int  `mapstructure:"failed_auth_window"`
	RepeatIPMinimum  int  `mapstructure:"repeat_ip_minimum"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/aegis-gateway")
	}

	// Environment variables
	v.SetEnvPrefix("AEGIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "AEGIS_REDIS_ENABLED")
	v.BindEnv("redis.tls", "AEGIS_REDIS_TLS")
	v.BindEnv("redis.host", "AEGIS_REDIS_HOST")
	v.BindEnv("redis.port", "AEGIS_REDIS_PORT")
	v.BindEnv("redis.password", "AEGIS_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "AEGIS_DATABASE_ENABLED")
	v.BindEnv("database.host", "AEGIS_DATABASE_HOST")
	v.BindEnv("database.port", "AEGIS_DATABASE_PORT")
	v.BindEnv("database.user", "AEGIS_DATABASE_USER")
	v.BindEnv("database.password", "AEGIS_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "AEGIS_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "AEGIS_DATABASE_SSLMODE")
	v.BindEnv("providers.anthropic.api_key", "AEGIS_PROVIDERS_ANTHROPIC_API_KEY")
	v.BindEnv("providers.gemini.api_key", "AEGIS_PROVIDERS_GEMINI_API_KEY")
	v.BindEnv("memory.backend", "AEGIS_MEMORY_BACKEND")
	v.BindEnv("app.environment", "AEGIS_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func applyDefaults(cfg *Config) {
	if cfg.Providers.Timeout <= 0 {
		cfg.Providers.Timeout = 10 * time.Second
	}
	if cfg.Providers.MaxTokens <= 0 {
		cfg.Providers.MaxTokens = 1024
	}
	if len(cfg.Providers.Order) == 0 {
		cfg.Providers.Order = []string{"anthropic", "gemini"}
	}
	if cfg.Memory.MaxEntries <= 0 {
		cfg.Memory.MaxEntries = 20
	}
	if cfg.Memory.Backend == "" {
		cfg.Memory.Backend = "memory"
	}
	if cfg.Scanners.Logs.FailedAuthWindow <= 0 {
		cfg.Scanners.Logs.FailedAuthWindow = 5
	}
	if cfg.Scanners.Logs.RepeatIPMinimum <= 0 {
		cfg.Scanners.Logs.RepeatIPMinimum = 5
	}
}
