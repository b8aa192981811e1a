package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"ninjapark-backend/logger"
	"ninjapark-backend/storage"
	"ninjapark-backend/utils"
)

// DevJWTSecret is only accepted when APP_ENV=development.
const DevJWTSecret = "ninja-park-dev-secret"

// AppConfig is read from the environment (and .env) by Load.
type AppConfig struct {
	Port     string `mapstructure:"port" validate:"required,numeric"`
	AppEnv   string `mapstructure:"app_env" validate:"required,oneof=development test production"`
	AppURL   string `mapstructure:"app_url"`
	AdminURL string `mapstructure:"admin_url"`

	DBDriver string `mapstructure:"db_driver" validate:"required,oneof=mysql postgres sqlite"`
	// DatabaseURL wins over the DB_* parts when set.
	DatabaseURL string `mapstructure:"database_url"`
	MySQLURL    string `mapstructure:"mysql_url"`
	DBHost      string `mapstructure:"db_host"`
	DBPort      string `mapstructure:"db_port"`
	DBUser      string `mapstructure:"db_user"`
	DBPass      string `mapstructure:"db_pass"`
	DBName      string `mapstructure:"db_name"`
	DBLogLevel  string `mapstructure:"db_log_level" validate:"oneof=silent error warn info"`

	JWTSecret        string        `mapstructure:"jwt_secret" validate:"required"`
	JWTExpiresIn     time.Duration `mapstructure:"jwt_expires_in" validate:"gt=0"`
	RefreshExpiresIn time.Duration `mapstructure:"refresh_token_expires_in" validate:"gt=0"`

	CorsOrigins string `mapstructure:"cors_origins"`

	RateLimitWindowMS    int `mapstructure:"rate_limit_window_ms" validate:"gt=0"`
	RateLimitMaxRequests int `mapstructure:"rate_limit_max_requests" validate:"gt=0"`

	UploadDir     string `mapstructure:"upload_dir" validate:"required"`
	MaxFileSize   int64  `mapstructure:"max_file_size" validate:"gt=0"`
	StorageDriver string `mapstructure:"storage_driver" validate:"oneof=local s3"`
	S3Endpoint    string `mapstructure:"s3_endpoint" validate:"required_if=StorageDriver s3"`
	S3AccessKey   string `mapstructure:"s3_access_key"`
	S3SecretKey   string `mapstructure:"s3_secret_key"`
	S3Bucket      string `mapstructure:"s3_bucket" validate:"required_if=StorageDriver s3"`
	S3UseSSL      bool   `mapstructure:"s3_use_ssl"`
	S3PublicURL   string `mapstructure:"s3_public_url"`

	RedisURL string `mapstructure:"redis_url"`

	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`
	SMTPUsername  string `mapstructure:"smtp_username"`
	SMTPPassword  string `mapstructure:"smtp_password"`
	SMTPFromName  string `mapstructure:"smtp_from_name"`
	SMTPFromEmail string `mapstructure:"smtp_from_email"`

	LogType       string `mapstructure:"log_type" validate:"oneof=console file"`
	LogLevel      string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSize    int    `mapstructure:"log_max_size"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAge     int    `mapstructure:"log_max_age"`
}

var defaults = map[string]interface{}{
	"port":      "8080",
	"app_env":   "development",
	"app_url":   "http://localhost:3000",
	"admin_url": "http://localhost:3001",

	"db_driver":    "mysql",
	"database_url": "",
	"mysql_url":    "",
	"db_host":      "127.0.0.1",
	"db_port":      "3306",
	"db_user":      "root",
	"db_pass":      "",
	"db_name":      "ninja_park",
	"db_log_level": "warn",

	"jwt_secret":               "",
	"jwt_expires_in":           "168h",
	"refresh_token_expires_in": "720h",

	"cors_origins": "",

	"rate_limit_window_ms":    900000,
	"rate_limit_max_requests": 100,

	"upload_dir":     "uploads",
	"max_file_size":  5 << 20,
	"storage_driver": "local",
	"s3_endpoint":    "",
	"s3_access_key":  "",
	"s3_secret_key":  "",
	"s3_bucket":      "",
	"s3_use_ssl":     true,
	"s3_public_url":  "",

	"redis_url": "",

	"smtp_host":       "",
	"smtp_port":       587,
	"smtp_username":   "",
	"smtp_password":   "",
	"smtp_from_name":  "Ninja Inflatable Park",
	"smtp_from_email": "",

	"log_type":        logger.TypeConsole,
	"log_level":       "info",
	"log_file":        "logs/ninjapark.log",
	"log_max_size":    50,
	"log_max_backups": 5,
	"log_max_age":     28,
}

// Load reads configuration from the process environment. Every key has a
// default so viper's AutomaticEnv picks up the matching upper-case variable.
func Load() (*AppConfig, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if cfg.JWTSecret == "" && cfg.AppEnv == "development" {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *AppConfig) Logger() logger.Config {
	return logger.Config{
		Type:       c.LogType,
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
	}
}

func (c *AppConfig) SMTP() utils.SMTPConfig {
	return utils.SMTPConfig{
		Host:      c.SMTPHost,
		Port:      c.SMTPPort,
		Username:  c.SMTPUsername,
		Password:  c.SMTPPassword,
		FromName:  c.SMTPFromName,
		FromEmail: c.SMTPFromEmail,
	}
}

func (c *AppConfig) S3() storage.S3Config {
	return storage.S3Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		UseSSL:    c.S3UseSSL,
		PublicURL: c.S3PublicURL,
	}
}

// RateLimitWindow converts RATE_LIMIT_WINDOW_MS.
func (c *AppConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

// ParseCorsOrigins splits CORS_ORIGINS on commas. Empty means the local
// frontend and admin dev servers.
func (c *AppConfig) ParseCorsOrigins() []string {
	raw := strings.TrimSpace(c.CorsOrigins)
	if raw == "" {
		return []string{c.AppURL, c.AdminURL}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
