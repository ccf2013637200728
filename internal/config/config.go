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
	Render   RenderConfig   `mapstructure:"render"`
	Export   ExportConfig   `mapstructure:"export"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Internal InternalConfig `mapstructure:"internal"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
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

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// RenderConfig 控制无头浏览器渲染宿主。
type RenderConfig struct {
	ReadyTimeoutSeconds   int     `mapstructure:"ready_timeout_seconds"`
	BrowserTimeoutSeconds int     `mapstructure:"browser_timeout_seconds"`
	DeviceScale           float64 `mapstructure:"device_scale"`
}

// ReadyTimeout 返回字体/图片就绪等待时限。
func (r RenderConfig) ReadyTimeout() time.Duration {
	return time.Duration(r.ReadyTimeoutSeconds) * time.Second
}

// BrowserTimeout 返回浏览器会话时限。
func (r RenderConfig) BrowserTimeout() time.Duration {
	return time.Duration(r.BrowserTimeoutSeconds) * time.Second
}

// ExportConfig 控制导出任务的限流与产物有效期。
type ExportConfig struct {
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
	DownloadTTLMinutes int `mapstructure:"download_ttl_minutes"`
	WorkerConcurrency  int `mapstructure:"worker_concurrency"`
}

// DownloadTTL 返回预签名下载链接的有效期。
func (e ExportConfig) DownloadTTL() time.Duration {
	return time.Duration(e.DownloadTTLMinutes) * time.Minute
}

// ClamdConfig 控制上传附件的病毒扫描。Address 为空时跳过扫描。
type ClamdConfig struct {
	Address string `mapstructure:"address"`
}

// InternalConfig 承载服务间调用的共享密钥。
type InternalConfig struct {
	Secret string `mapstructure:"secret"`
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
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvpress")
	v.SetDefault("database.user", "cvpress")
	v.SetDefault("database.password", "cvpress")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "cvpress")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("render.ready_timeout_seconds", 15)
	v.SetDefault("render.browser_timeout_seconds", 90)
	v.SetDefault("render.device_scale", 3.0)
	v.SetDefault("export.rate_limit_per_minute", 5)
	v.SetDefault("export.download_ttl_minutes", 30)
	v.SetDefault("export.worker_concurrency", 2)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
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
		"minio.region":                   "MINIO_REGION",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"render.ready_timeout_seconds":   "RENDER_READY_TIMEOUT",
		"render.browser_timeout_seconds": "RENDER_BROWSER_TIMEOUT",
		"render.device_scale":            "RENDER_DEVICE_SCALE",
		"export.rate_limit_per_minute":   "EXPORT_RATE_LIMIT",
		"export.download_ttl_minutes":    "EXPORT_DOWNLOAD_TTL",
		"export.worker_concurrency":      "EXPORT_WORKER_CONCURRENCY",
		"clamd.address":                  "CLAMD_ADDRESS",
		"internal.secret":                "INTERNAL_SECRET",
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
	if cfg.Render.ReadyTimeoutSeconds <= 0 {
		return errors.New("render ready timeout must be positive")
	}
	if cfg.Render.DeviceScale <= 0 {
		return errors.New("render device scale must be positive")
	}
	if cfg.Export.RateLimitPerMinute <= 0 {
		return errors.New("export rate limit must be positive")
	}
	if cfg.Export.WorkerConcurrency <= 0 {
		return errors.New("export worker concurrency must be positive")
	}
	return nil
}
