package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/contactbook-backend/internal/data/db"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/envutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const defaultSecretKey = "dev-secret-key"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	SecretKey string `yaml:"secret_key"`
	// AccessTokenTTLSeconds is ACCESS_TOKEN_TTL; see AccessTokenTTL.
	AccessTokenTTLSeconds int `yaml:"access_token_ttl"`

	DataDir      string         `yaml:"data_dir"`
	StoreBackend StoreBackend   `yaml:"store_backend"`
	Postgres     PostgresConfig `yaml:"postgres"`
	SQLitePath   string         `yaml:"sqlite_path"`

	SessionStore string      `yaml:"session_store"`
	Redis        RedisConfig `yaml:"redis"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	CookieSecure       bool     `yaml:"cookie_secure"`
	CookieDomain       string   `yaml:"cookie_domain"`

	Otel           OtelConfig `yaml:"otel"`
	MetricsEnabled bool       `yaml:"metrics_enabled"`
	MetricsAddr    string     `yaml:"metrics_addr"`

	AvatarFont       string `yaml:"avatar_font"`
	AvatarColorsPath string `yaml:"avatar_colors_json_path"`
}

func defaultConfig() Config {
	return Config{
		Port:                  "8080",
		LogMode:               "development",
		SecretKey:             defaultSecretKey,
		AccessTokenTTLSeconds: 3600,
		DataDir:               "data",
		StoreBackend:          StoreBackendCSV,
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		SQLitePath:   "data/contactbook.db",
		SessionStore: SessionStoreMemory,
		Redis:        RedisConfig{Prefix: "cb"},
		Otel: OtelConfig{
			ServiceName: "contactbook",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers defaults, the optional CONFIG_FILE YAML document and the
// environment, in that order.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.SecretKey == defaultSecretKey {
		log.Warn("SECRET_KEY not set; using the development key")
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.SecretKey = envutil.String("SECRET_KEY", cfg.SecretKey)
	cfg.AccessTokenTTLSeconds = envutil.Int("ACCESS_TOKEN_TTL", cfg.AccessTokenTTLSeconds)

	cfg.DataDir = envutil.String("DATA_DIR", cfg.DataDir)
	cfg.StoreBackend = StoreBackend(strings.ToLower(envutil.String("STORE_BACKEND", string(cfg.StoreBackend))))
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)

	cfg.SessionStore = strings.ToLower(envutil.String("SESSION_STORE", cfg.SessionStore))
	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = envutil.String("REDIS_PREFIX", cfg.Redis.Prefix)

	cfg.CORSAllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.CookieSecure = envutil.Bool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieDomain = envutil.String("COOKIE_DOMAIN", cfg.CookieDomain)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio)

	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = envutil.String("METRICS_ADDR", cfg.MetricsAddr)

	cfg.AvatarFont = envutil.String("AVATAR_FONT", cfg.AvatarFont)
	cfg.AvatarColorsPath = envutil.String("AVATAR_COLORS_JSON_PATH", cfg.AvatarColorsPath)
}

func (c Config) validate() error {
	if !c.StoreBackend.supported() {
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.AccessTokenTTLSeconds <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	return nil
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLSeconds) * time.Second
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) dbConfig() db.Config {
	return db.Config{
		Driver:           string(c.StoreBackend),
		PostgresHost:     c.Postgres.Host,
		PostgresPort:     c.Postgres.Port,
		PostgresUser:     c.Postgres.User,
		PostgresPassword: c.Postgres.Password,
		PostgresName:     c.Postgres.Name,
		PostgresSSLMode:  c.Postgres.SSLMode,
		SQLitePath:       c.SQLitePath,
	}
}

func (c Config) otelConfig(version string) observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.Otel.Environment,
		Version:     version,
		Endpoint:    c.Otel.Endpoint,
		Headers:     c.Otel.Headers,
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}
