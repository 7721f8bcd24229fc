package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OTP      OTPConfig      `mapstructure:"otp"`
	Mail     MailConfig     `mapstructure:"mail"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port             int      `mapstructure:"port"`
	CookieDomain     string   `mapstructure:"cookie_domain"`
	WSAllowedOrigins []string `mapstructure:"ws_allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	PublicEndpoint  string `mapstructure:"public_endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

// AuthConfig contains the JWT signing secret and login hardening knobs.
type AuthConfig struct {
	JWTSecret             string        `mapstructure:"jwt_secret"`
	AccessTokenTTL        time.Duration `mapstructure:"access_token_ttl"`
	ResetTokenTTL         time.Duration `mapstructure:"reset_token_ttl"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// OTPConfig bounds the one-time-password lifecycle.
type OTPConfig struct {
	TTL              time.Duration `mapstructure:"ttl"`
	MaxAttempts      int           `mapstructure:"max_attempts"`
	ResendPerHourCap int           `mapstructure:"resend_per_hour_cap"`
}

// MailConfig contains SMTP delivery settings for the worker.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ClamdConfig points at an optional clamd instance for upload scanning.
// An empty address disables scanning.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr builds the host:port address for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
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
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cookie_domain", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "goabroad")
	v.SetDefault("database.user", "goabroad")
	v.SetDefault("database.password", "goabroad")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "uploads")
	v.SetDefault("auth.access_token_ttl", 24*time.Hour)
	v.SetDefault("auth.reset_token_ttl", 10*time.Minute)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("otp.ttl", 5*time.Minute)
	v.SetDefault("otp.max_attempts", 5)
	v.SetDefault("otp.resend_per_hour_cap", 5)
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "no-reply@goabroad.local")
	v.SetDefault("clamd.addr", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.cookie_domain":              "API_COOKIE_DOMAIN",
		"api.ws_allowed_origins":         "API_WS_ALLOWED_ORIGINS",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.bucket":                   "MINIO_BUCKET",
		"auth.jwt_secret":                "AUTH_JWT_SECRET",
		"auth.access_token_ttl":          "AUTH_ACCESS_TOKEN_TTL",
		"auth.reset_token_ttl":           "AUTH_RESET_TOKEN_TTL",
		"auth.login_rate_limit_per_hour": "AUTH_LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "AUTH_LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "AUTH_LOGIN_LOCK_TTL",
		"otp.ttl":                        "OTP_TTL",
		"otp.max_attempts":               "OTP_MAX_ATTEMPTS",
		"otp.resend_per_hour_cap":        "OTP_RESEND_PER_HOUR_CAP",
		"mail.host":                      "MAIL_SMTP_HOST",
		"mail.port":                      "MAIL_SMTP_PORT",
		"mail.username":                  "MAIL_SMTP_USERNAME",
		"mail.password":                  "MAIL_SMTP_PASSWORD",
		"mail.from":                      "MAIL_FROM",
		"clamd.addr":                     "CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
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
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth jwt secret is required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		return errors.New("auth access token ttl must be positive")
	}
	if cfg.Auth.ResetTokenTTL <= 0 {
		return errors.New("auth reset token ttl must be positive")
	}
	if cfg.OTP.TTL <= 0 {
		return errors.New("otp ttl must be positive")
	}
	if cfg.OTP.MaxAttempts <= 0 {
		return errors.New("otp max attempts must be positive")
	}
	if cfg.Mail.Host == "" {
		return errors.New("mail smtp host is required")
	}
	if cfg.Mail.From == "" {
		return errors.New("mail from address is required")
	}
	return nil
}
