package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Log      LogConfig
	S3       S3Config
	Vayana   GSPProviderConfig
	Cygnet   GSPProviderConfig
	GSP      GSPConfig
	Webhook  WebhookConfig
	Hub      HubConfig
	Archival ArchivalConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`

	// AllowedOrigins lists the browser origins served CORS headers.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the key value store connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// GSPProviderConfig holds the endpoint settings of a single GSP provider.
type GSPProviderConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Timeout returns the provider call timeout.
func (g *GSPProviderConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// GSPConfig holds settings shared by the GSP reconciliation jobs.
type GSPConfig struct {
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	LowerGSPPriority string        `mapstructure:"lower_gsp_priority"`
}

// WebhookConfig holds merchant webhook delivery settings.
type WebhookConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// HubConfig holds the end-of-day hub status webhook settings.
type HubConfig struct {
	WebhookEnabled bool   `mapstructure:"webhook_enabled"`
	StatusURL      string `mapstructure:"status_url"`
	APIKey         string `mapstructure:"api_key"`
}

// ArchivalConfig holds invoice archival settings.
type ArchivalConfig struct {
	DaysToTransfer int `mapstructure:"days_to_transfer"`
	BatchSize      int `mapstructure:"batch_size"`
}

// JobsConfig holds scheduled job and async worker settings.
type JobsConfig struct {
	LockTTL               time.Duration `mapstructure:"lock_ttl"`
	StatusEnquiryInterval time.Duration `mapstructure:"status_enquiry_interval"`
	DownloadInterval      time.Duration `mapstructure:"download_interval"`
	MISReportInterval     time.Duration `mapstructure:"mis_report_interval"`
	AsyncConcurrency      int           `mapstructure:"async_concurrency"`
	AsyncTaskTimeout      time.Duration `mapstructure:"async_task_timeout"`
}

// Load reads configuration from environment variables with the INVOICEFIN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEFIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicefin")
	v.SetDefault("db.password", "invoicefin_secret")
	v.SetDefault("db.name", "invoicefin_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "invoicefin-artifacts")
	v.SetDefault("s3.endpoint", "")

	// GSP provider defaults
	v.SetDefault("vayana.base_url", "https://solo.enriched-api.vayana.com")
	v.SetDefault("vayana.timeout_secs", 120)
	v.SetDefault("cygnet.base_url", "https://gsp.cygnetgsp.in")
	v.SetDefault("cygnet.timeout_secs", 120)
	v.SetDefault("gsp.token_ttl", "6h")
	v.SetDefault("gsp.lower_gsp_priority", "vayana")

	// Webhook defaults
	v.SetDefault("webhook.timeout", "120s")
	v.SetDefault("hub.webhook_enabled", false)
	v.SetDefault("hub.status_url", "")
	v.SetDefault("hub.api_key", "")

	// Archival defaults
	v.SetDefault("archival.days_to_transfer", 365)
	v.SetDefault("archival.batch_size", 500)

	// Job defaults
	v.SetDefault("jobs.lock_ttl", "300s")
	v.SetDefault("jobs.status_enquiry_interval", "1m")
	v.SetDefault("jobs.download_interval", "1m")
	v.SetDefault("jobs.mis_report_interval", "15m")
	v.SetDefault("jobs.async_concurrency", 8)
	v.SetDefault("jobs.async_task_timeout", "5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "INVOICEFIN_SERVER_PORT",
		"server.read_timeout":          "INVOICEFIN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "INVOICEFIN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "INVOICEFIN_SERVER_ENVIRONMENT",
		"server.allowed_origins":       "INVOICEFIN_SERVER_ALLOWED_ORIGINS",
		"db.host":                      "INVOICEFIN_DB_HOST",
		"db.port":                      "INVOICEFIN_DB_PORT",
		"db.user":                      "INVOICEFIN_DB_USER",
		"db.password":                  "INVOICEFIN_DB_PASSWORD",
		"db.name":                      "INVOICEFIN_DB_NAME",
		"db.sslmode":                   "INVOICEFIN_DB_SSLMODE",
		"db.max_open":                  "INVOICEFIN_DB_MAX_OPEN",
		"db.max_idle":                  "INVOICEFIN_DB_MAX_IDLE",
		"redis.addr":                   "INVOICEFIN_REDIS_ADDR",
		"redis.password":               "INVOICEFIN_REDIS_PASSWORD",
		"redis.db":                     "INVOICEFIN_REDIS_DB",
		"log.level":                    "INVOICEFIN_LOG_LEVEL",
		"log.format":                   "INVOICEFIN_LOG_FORMAT",
		"s3.region":                    "INVOICEFIN_S3_REGION",
		"s3.bucket":                    "INVOICEFIN_S3_BUCKET",
		"s3.endpoint":                  "INVOICEFIN_S3_ENDPOINT",
		"s3.access_key":                "INVOICEFIN_S3_ACCESS_KEY",
		"s3.secret_key":                "INVOICEFIN_S3_SECRET_KEY",
		"vayana.base_url":              "INVOICEFIN_VAYANA_BASE_URL",
		"vayana.timeout_secs":          "INVOICEFIN_VAYANA_TIMEOUT_SECS",
		"cygnet.base_url":              "INVOICEFIN_CYGNET_BASE_URL",
		"cygnet.timeout_secs":          "INVOICEFIN_CYGNET_TIMEOUT_SECS",
		"gsp.token_ttl":                "INVOICEFIN_GSP_TOKEN_TTL",
		"gsp.lower_gsp_priority":       "INVOICEFIN_GSP_LOWER_GSP_PRIORITY",
		"webhook.timeout":              "INVOICEFIN_WEBHOOK_TIMEOUT",
		"hub.webhook_enabled":          "INVOICEFIN_HUB_WEBHOOK_ENABLED",
		"hub.status_url":               "INVOICEFIN_HUB_STATUS_URL",
		"hub.api_key":                  "INVOICEFIN_HUB_API_KEY",
		"archival.days_to_transfer":    "INVOICEFIN_ARCHIVAL_DAYS_TO_TRANSFER",
		"archival.batch_size":          "INVOICEFIN_ARCHIVAL_BATCH_SIZE",
		"jobs.lock_ttl":                "INVOICEFIN_JOBS_LOCK_TTL",
		"jobs.status_enquiry_interval": "INVOICEFIN_JOBS_STATUS_ENQUIRY_INTERVAL",
		"jobs.download_interval":       "INVOICEFIN_JOBS_DOWNLOAD_INTERVAL",
		"jobs.mis_report_interval":     "INVOICEFIN_JOBS_MIS_REPORT_INTERVAL",
		"jobs.async_concurrency":       "INVOICEFIN_JOBS_ASYNC_CONCURRENCY",
		"jobs.async_task_timeout":      "INVOICEFIN_JOBS_ASYNC_TASK_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if INVOICEFIN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEFIN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	for _, origin := range strings.Split(v.GetString("server.allowed_origins"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, origin)
		}
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Vayana = GSPProviderConfig{
		BaseURL:     v.GetString("vayana.base_url"),
		TimeoutSecs: v.GetInt("vayana.timeout_secs"),
	}
	cfg.Cygnet = GSPProviderConfig{
		BaseURL:     v.GetString("cygnet.base_url"),
		TimeoutSecs: v.GetInt("cygnet.timeout_secs"),
	}
	cfg.GSP = GSPConfig{
		TokenTTL:         v.GetDuration("gsp.token_ttl"),
		LowerGSPPriority: strings.ToLower(v.GetString("gsp.lower_gsp_priority")),
	}
	cfg.Webhook = WebhookConfig{
		Timeout: v.GetDuration("webhook.timeout"),
	}
	cfg.Hub = HubConfig{
		WebhookEnabled: v.GetBool("hub.webhook_enabled"),
		StatusURL:      v.GetString("hub.status_url"),
		APIKey:         v.GetString("hub.api_key"),
	}

	// A zero day threshold falls back to one year.
	days := v.GetInt("archival.days_to_transfer")
	if days <= 0 {
		days = 365
	}
	cfg.Archival = ArchivalConfig{
		DaysToTransfer: days,
		BatchSize:      v.GetInt("archival.batch_size"),
	}
	cfg.Jobs = JobsConfig{
		LockTTL:               v.GetDuration("jobs.lock_ttl"),
		StatusEnquiryInterval: v.GetDuration("jobs.status_enquiry_interval"),
		DownloadInterval:      v.GetDuration("jobs.download_interval"),
		MISReportInterval:     v.GetDuration("jobs.mis_report_interval"),
		AsyncConcurrency:      v.GetInt("jobs.async_concurrency"),
		AsyncTaskTimeout:      v.GetDuration("jobs.async_task_timeout"),
	}

	return cfg, nil
}
