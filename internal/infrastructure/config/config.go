package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CATALOGSYNC_MAGENTO_URL
const EnvPrefix = "CATALOGSYNC"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Magento   MagentoConfig
	Assets    AssetsConfig
	Storage   StorageConfig
	Import    ImportConfig
	Kafka     KafkaConfig
	Cron      CronConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string `validate:"oneof=development testing staging production"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string `validate:"oneof=postgres sqlite"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, ":memory:" for an in-memory database
	MaxOpenConns    int    `validate:"gt=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime int    // in minutes
	ConnMaxIdleTime int    // in minutes
	SlowThreshold   time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MagentoConfig holds the remote catalog connection settings
type MagentoConfig struct {
	URL         string `validate:"omitempty,url"`
	AccessToken string
	APIVersion  string
	DebugMode   bool
	Timeout     time.Duration
	PageSize    int `validate:"gt=0"`
	RetryCount  int `validate:"gte=0"`
}

// BaseURL returns the REST root, e.g. https://shop.example/rest/V1
func (m MagentoConfig) BaseURL() string {
	return m.URL + "/rest/" + m.APIVersion
}

// IsConfigured reports whether both URL and token are set
func (m MagentoConfig) IsConfigured() bool {
	return m.URL != "" && m.AccessToken != ""
}

// AssetsConfig selects where downloaded media lands
type AssetsConfig struct {
	Backend   string `validate:"oneof=local s3 memory"`
	Root      string
	Overwrite bool
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicURL       string
}

// ImportConfig holds synchronization behaviour
type ImportConfig struct {
	Workers              int `validate:"gt=0"`
	QueueSize            int `validate:"gt=0"`
	JobTimeout           time.Duration
	RetryAttempts        int `validate:"gte=0"`
	RetryDelay           time.Duration
	MaxCategoryDepth     int `validate:"gt=0"`
	BroadenAttributeSets bool
	LocationID           uint
	Vocabulary           string `validate:"required"`
	LockBackend          string `validate:"oneof=memory redis"`
	LockTTL              time.Duration
	LockWait             time.Duration
	SanitizeDescription  bool
	DefaultCurrency      string `validate:"len=3"`
}

// KafkaConfig holds queue settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether brokers are configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// CronConfig holds scheduled import settings
type CronConfig struct {
	Enabled        bool
	CatalogSpec    string
	CategoriesSpec string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Host         string
	Port         int `validate:"gt=0,lt=65536"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns host:port
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64 `validate:"gte=0,lte=1"`
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
	DBTraceEnabled    bool
	DBLogFullSQL      bool
}

// Load loads configuration from config.toml, a .env file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CATALOGSYNC_ prefix (e.g., CATALOGSYNC_MAGENTO_ACCESS_TOKEN)
// 2. .env in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path; empty searches the default locations.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/catalogsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true cannot be told apart from "unset" after decoding
	v.SetDefault("assets.overwrite", true)
	v.SetDefault("import.broaden_attribute_sets", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Magento: MagentoConfig{
			URL:         strings.TrimRight(v.GetString("magento.url"), "/"),
			AccessToken: v.GetString("magento.access_token"),
			APIVersion:  v.GetString("magento.api_version"),
			DebugMode:   v.GetBool("magento.debug_mode"),
			Timeout:     v.GetDuration("magento.timeout"),
			PageSize:    v.GetInt("magento.page_size"),
			RetryCount:  v.GetInt("magento.retry_count"),
		},
		Assets: AssetsConfig{
			Backend:   v.GetString("assets.backend"),
			Root:      v.GetString("assets.root"),
			Overwrite: v.GetBool("assets.overwrite"),
		},
		Storage: StorageConfig{
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PublicURL:       v.GetString("storage.public_url"),
		},
		Import: ImportConfig{
			Workers:              v.GetInt("import.workers"),
			QueueSize:            v.GetInt("import.queue_size"),
			JobTimeout:           v.GetDuration("import.job_timeout"),
			RetryAttempts:        v.GetInt("import.retry_attempts"),
			RetryDelay:           v.GetDuration("import.retry_delay"),
			MaxCategoryDepth:     v.GetInt("import.max_category_depth"),
			BroadenAttributeSets: v.GetBool("import.broaden_attribute_sets"),
			LocationID:           v.GetUint("import.location_id"),
			Vocabulary:           v.GetString("import.vocabulary"),
			LockBackend:          v.GetString("import.lock_backend"),
			LockTTL:              v.GetDuration("import.lock_ttl"),
			LockWait:             v.GetDuration("import.lock_wait"),
			SanitizeDescription:  v.GetBool("import.sanitize_description"),
			DefaultCurrency:      strings.ToUpper(v.GetString("import.default_currency")),
		},
		Kafka: KafkaConfig{
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
			GroupID: v.GetString("kafka.group_id"),
		},
		Cron: CronConfig{
			Enabled:        v.GetBool("cron.enabled"),
			CatalogSpec:    v.GetString("cron.catalog_spec"),
			CategoriesSpec: v.GetString("cron.categories_spec"),
		},
		HTTP: HTTPConfig{
			Host:         v.GetString("http.host"),
			Port:         v.GetInt("http.port"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalogsync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "catalogsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "catalogsync.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Magento.APIVersion == "" {
		cfg.Magento.APIVersion = "V1"
	}
	if cfg.Magento.Timeout == 0 {
		cfg.Magento.Timeout = 30 * time.Second
	}
	if cfg.Magento.PageSize == 0 {
		cfg.Magento.PageSize = 100
	}
	if cfg.Assets.Backend == "" {
		cfg.Assets.Backend = "local"
	}
	if cfg.Assets.Root == "" {
		cfg.Assets.Root = "./public"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Import.Workers == 0 {
		cfg.Import.Workers = 4
	}
	if cfg.Import.QueueSize == 0 {
		cfg.Import.QueueSize = 1000
	}
	if cfg.Import.JobTimeout == 0 {
		cfg.Import.JobTimeout = 5 * time.Minute
	}
	if cfg.Import.RetryDelay == 0 {
		cfg.Import.RetryDelay = 30 * time.Second
	}
	if cfg.Import.MaxCategoryDepth == 0 {
		cfg.Import.MaxCategoryDepth = 32
	}
	if cfg.Import.LocationID == 0 {
		cfg.Import.LocationID = 1
	}
	if cfg.Import.Vocabulary == "" {
		cfg.Import.Vocabulary = "magento_categories"
	}
	if cfg.Import.LockBackend == "" {
		cfg.Import.LockBackend = "memory"
	}
	if cfg.Import.LockTTL == 0 {
		cfg.Import.LockTTL = 10 * time.Minute
	}
	if cfg.Import.LockWait == 0 {
		cfg.Import.LockWait = 30 * time.Second
	}
	if cfg.Import.DefaultCurrency == "" {
		cfg.Import.DefaultCurrency = "USD"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "catalog-sku-jobs"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "catalogsync"
	}
	if cfg.Cron.CatalogSpec == "" {
		cfg.Cron.CatalogSpec = "0 0 3 * * *"
	}
	if cfg.Cron.CategoriesSpec == "" {
		cfg.Cron.CategoriesSpec = "0 30 2 * * *"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "catalogsync"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 15 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Assets.Backend == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when assets.backend is s3")
	}
	if c.Import.LockTTL < c.Import.JobTimeout {
		return fmt.Errorf("import.lock_ttl (%s) must not be shorter than import.job_timeout (%s)",
			c.Import.LockTTL, c.Import.JobTimeout)
	}

	if c.App.Env == "production" {
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
