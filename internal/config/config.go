package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Clamd     ClamdConfig     `mapstructure:"clamd"`
	Mail      MailConfig      `mapstructure:"mail"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	LogLevel       string   `mapstructure:"log_level"`
	FrontendURLs   []string `mapstructure:"frontend_urls"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Production reports whether error details must be hidden from clients.
func (a APIConfig) Production() bool {
	return strings.EqualFold(strings.TrimSpace(a.Env), "production")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (a APIConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseConfig selects the document store by URI scheme.
type DatabaseConfig struct {
	URI             string        `mapstructure:"uri"`
	Name            string        `mapstructure:"name"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// AuthConfig holds token signing and bootstrap settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"`
	SetupToken string `mapstructure:"setup_token"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

// RedisConfig holds the Redis connection. With no Addr, rate limiting and
// notifications fall back to in-process implementations.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig controls the per-client fixed window on /api.
type RateLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
	Prefix string        `mapstructure:"prefix"`
}

// StorageConfig selects where uploads are written.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	UploadDir string `mapstructure:"upload_dir"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// ClamdConfig enables antivirus scanning of uploads when Addr is set.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// MailConfig holds SMTP credentials for contact notifications.
type MailConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	AdminEmail string        `mapstructure:"admin_email"`
	Dispatch   string        `mapstructure:"dispatch"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether SMTP credentials are present.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.User) != "" && strings.TrimSpace(m.Password) != ""
}

// FallbackConfig controls the default dataset served when the store is down.
type FallbackConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

// CacheConfig controls the public read cache. A zero TTL disables it.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.FrontendURLs = splitList(cfg.API.FrontendURLs)
	cfg.API.TrustedProxies = splitList(cfg.API.TrustedProxies)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.env", "development")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("api.frontend_urls", []string{
		"http://localhost:5173",
		"http://localhost:5174",
		"http://localhost:3000",
	})
	v.SetDefault("database.uri", "mongodb://localhost:27017/portfolio_db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("ratelimit.max", 100)
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("ratelimit.prefix", "portfolio:ratelimit")
	v.SetDefault("storage.backend", "disk")
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "portfolio-uploads")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.dispatch", "inline")
	v.SetDefault("mail.timeout", 30*time.Second)
	v.SetDefault("fallback.enabled", true)
	v.SetDefault("cache.ttl", time.Minute)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string][]string{
		"api.port":                 {"PORT", "API_PORT"},
		"api.env":                  {"APP_ENV", "NODE_ENV"},
		"api.log_level":            {"LOG_LEVEL"},
		"api.frontend_urls":        {"FRONTEND_URLS", "FRONTEND_URL"},
		"api.trusted_proxies":      {"TRUSTED_PROXIES"},
		"database.uri":             {"DATABASE_URI", "MONGODB_URI"},
		"database.name":            {"DATABASE_NAME"},
		"database.max_open_conns":  {"DATABASE_MAX_OPEN_CONNS"},
		"database.max_idle_conns":  {"DATABASE_MAX_IDLE_CONNS"},
		"database.connect_timeout": {"DATABASE_CONNECT_TIMEOUT"},
		"auth.jwt_secret":          {"JWT_SECRET"},
		"auth.setup_token":         {"ADMIN_SETUP_TOKEN"},
		"auth.bcrypt_cost":         {"BCRYPT_COST"},
		"redis.addr":               {"REDIS_ADDR"},
		"redis.password":           {"REDIS_PASSWORD"},
		"redis.db":                 {"REDIS_DB"},
		"ratelimit.max":            {"RATE_LIMIT_MAX"},
		"ratelimit.window":         {"RATE_LIMIT_WINDOW"},
		"storage.backend":          {"STORAGE_BACKEND"},
		"storage.upload_dir":       {"UPLOAD_DIR"},
		"minio.endpoint":           {"MINIO_ENDPOINT"},
		"minio.access_key_id":      {"MINIO_ACCESS_KEY_ID"},
		"minio.secret_access_key":  {"MINIO_SECRET_ACCESS_KEY"},
		"minio.use_ssl":            {"MINIO_USE_SSL"},
		"minio.bucket":             {"MINIO_BUCKET"},
		"minio.region":             {"MINIO_REGION"},
		"minio.auto_create_bucket": {"MINIO_AUTO_CREATE_BUCKET"},
		"clamd.addr":               {"CLAMD_ADDR"},
		"mail.host":                {"SMTP_HOST"},
		"mail.port":                {"SMTP_PORT"},
		"mail.user":                {"EMAIL_USER"},
		"mail.password":            {"EMAIL_PASS"},
		"mail.admin_email":         {"ADMIN_EMAIL"},
		"mail.dispatch":            {"NOTIFY_DISPATCH"},
		"mail.timeout":             {"NOTIFY_TIMEOUT"},
		"fallback.enabled":         {"FALLBACK_ENABLED"},
		"fallback.file":            {"FALLBACK_FILE"},
		"cache.ttl":                {"CACHE_TTL"},
	}

	for key, envs := range mappings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, strings.Join(envs, ","), err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if strings.TrimSpace(cfg.Database.URI) == "" {
		return errors.New("database uri is required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("jwt secret is required")
	}
	if cfg.RateLimit.Max <= 0 {
		return errors.New("rate limit max must be positive")
	}
	if cfg.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	switch strings.ToLower(cfg.Storage.Backend) {
	case "disk":
		if strings.TrimSpace(cfg.Storage.UploadDir) == "" {
			return errors.New("upload dir is required")
		}
	case "minio":
		if cfg.MinIO.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	switch cfg.Mail.Dispatch {
	case "inline":
	case "queue":
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return errors.New("redis addr is required for queued notifications")
		}
	default:
		return fmt.Errorf("unknown notify dispatch %q", cfg.Mail.Dispatch)
	}
	return nil
}

// splitList flattens comma separated entries, which is how list values arrive from env.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
