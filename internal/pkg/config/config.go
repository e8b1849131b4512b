// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendS3       = "s3"
	BackendGist     = "gist"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Store       StoreConfig
	File        FileConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Gist        GistConfig
	Database    DatabaseConfig
	Credentials CredentialsConfig
	Asynq       AsynqConfig
	Security    SecurityConfig
	Server      ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// StoreConfig selects and tunes the inventory backend
type StoreConfig struct {
	Backend          string
	CollectionID     string
	CacheTTL         time.Duration
	CacheEnabled     bool
	SerializedWrites bool
	BackupPrefix     string
}

// FileConfig holds the local slot location
type FileConfig struct {
	Path      string
	BackupDir string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	KeyPrefix    string
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3ObjectKey     string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// GistConfig holds the remote document API settings
type GistConfig struct {
	APIURL   string
	FileName string
	Timeout  time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxConnLifetime    time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	RunMigrations      bool
}

// CredentialsConfig says where the remote bearer token comes from
type CredentialsConfig struct {
	Source     string // env, secretsmanager
	Token      string
	SecretName string
	CacheTTL   time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
	BackupSchedule  string
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	RequestIDHeader   string
	MaxUploadSizeMB   int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	RequestTimeout  time.Duration
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	env := v.GetString("APP_ENV")

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			LogFormat:   v.GetString("LOG_FORMAT"),
			Debug:       v.GetBool("APP_DEBUG"),
		},
		Store: StoreConfig{
			Backend:          strings.ToLower(v.GetString("STORE_BACKEND")),
			CollectionID:     v.GetString("STORE_COLLECTION_ID"),
			CacheTTL:         v.GetDuration("STORE_CACHE_TTL"),
			CacheEnabled:     v.GetBool("STORE_CACHE_ENABLED"),
			SerializedWrites: v.GetBool("STORE_SERIALIZED_WRITES"),
			BackupPrefix:     v.GetString("STORE_BACKUP_PREFIX"),
		},
		File: FileConfig{
			Path:      v.GetString("FILE_STORE_PATH"),
			BackupDir: v.GetString("FILE_BACKUP_DIR"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetString("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			KeyPrefix:    v.GetString("REDIS_KEY_PREFIX"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:        v.GetString("AWS_S3_BUCKET"),
			S3ObjectKey:     v.GetString("AWS_S3_OBJECT_KEY"),
			S3Endpoint:      v.GetString("AWS_S3_ENDPOINT"),
			UsePathStyle:    v.GetBool("AWS_S3_PATH_STYLE"),
		},
		Gist: GistConfig{
			APIURL:   v.GetString("GIST_API_URL"),
			FileName: v.GetString("GIST_FILE_NAME"),
			Timeout:  v.GetDuration("GIST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSL_MODE"),
			MaxConnections:     v.GetInt("DB_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("DB_MAX_IDLE_CONNECTIONS"),
			MaxConnLifetime:    v.GetDuration("DB_CONNECTION_LIFETIME"),
			ConnectTimeout:     v.GetDuration("DB_CONNECT_TIMEOUT"),
			EnableQueryLogging: v.GetBool("DB_QUERY_LOGGING"),
			RunMigrations:      v.GetBool("DB_RUN_MIGRATIONS"),
		},
		Credentials: CredentialsConfig{
			Source:     strings.ToLower(v.GetString("CREDENTIALS_SOURCE")),
			Token:      v.GetString("STORE_TOKEN"),
			SecretName: v.GetString("CREDENTIALS_SECRET_NAME"),
			CacheTTL:   v.GetDuration("CREDENTIALS_CACHE_TTL"),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("ASYNQ_REDIS_DB"),
			Concurrency:     v.GetInt("ASYNQ_CONCURRENCY"),
			Queues:          parseQueues(v.GetString("ASYNQ_QUEUES")),
			StrictPriority:  v.GetBool("ASYNQ_STRICT_PRIORITY"),
			RetryMax:        v.GetInt("ASYNQ_RETRY_MAX"),
			ShutdownTimeout: v.GetDuration("ASYNQ_SHUTDOWN_TIMEOUT"),
			BackupSchedule:  v.GetString("ASYNQ_BACKUP_SCHEDULE"),
		},
		Security: SecurityConfig{
			RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitDuration: v.GetDuration("RATE_LIMIT_DURATION"),
			AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
			RequestIDHeader:   v.GetString("REQUEST_ID_HEADER"),
			MaxUploadSizeMB:   v.GetInt("MAX_UPLOAD_SIZE_MB"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			MaxHeaderBytes:  v.GetInt("SERVER_MAX_HEADER_BYTES"),
			GracefulTimeout: v.GetDuration("SERVER_GRACEFUL_TIMEOUT"),
			RequestTimeout:  v.GetDuration("SERVER_REQUEST_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	if c.Store.CacheTTL < 0 {
		return fmt.Errorf("store cache ttl cannot be negative")
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.File.Path == "" {
			return fmt.Errorf("file store path is required")
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required for the redis backend")
		}
	case BackendS3:
		if err := ValidateBucketName(c.AWS.S3Bucket); err != nil {
			return err
		}
		if err := ValidateObjectKey(c.AWS.S3ObjectKey); err != nil {
			return err
		}
	case BackendGist:
		if err := ValidateURL(c.Gist.APIURL); err != nil {
			return fmt.Errorf("gist api url: %w", err)
		}
		if c.Store.CollectionID == "" {
			return fmt.Errorf("store collection id is required for the gist backend")
		}
		if c.Credentials.Source == "env" && c.Credentials.Token == "" {
			return fmt.Errorf("store token is required for the gist backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Credentials.Source {
	case "env":
	case "secretsmanager":
		if c.Credentials.SecretName == "" {
			return fmt.Errorf("credentials secret name is required for secretsmanager")
		}
	default:
		return fmt.Errorf("unknown credentials source %q", c.Credentials.Source)
	}

	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns host:port for redis
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "stockscan")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("STORE_COLLECTION_ID", "inventory")
	v.SetDefault("STORE_CACHE_TTL", 30*time.Second)
	v.SetDefault("STORE_CACHE_ENABLED", true)
	v.SetDefault("STORE_SERIALIZED_WRITES", false)
	v.SetDefault("STORE_BACKUP_PREFIX", "backups")

	v.SetDefault("FILE_STORE_PATH", "data/inventory.json")
	v.SetDefault("FILE_BACKUP_DIR", "data/backups")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_KEY_PREFIX", "stockscan")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_S3_BUCKET", "stockscan-inventory")
	v.SetDefault("AWS_S3_OBJECT_KEY", "inventory.json")
	v.SetDefault("AWS_S3_ENDPOINT", "")
	v.SetDefault("AWS_S3_PATH_STYLE", false)

	v.SetDefault("GIST_API_URL", "https://api.github.com")
	v.SetDefault("GIST_FILE_NAME", "inventory.json")
	v.SetDefault("GIST_TIMEOUT", 15*time.Second)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "stockscan")
	v.SetDefault("DB_PASSWORD", "stockscan_dev")
	v.SetDefault("DB_NAME", "stockscan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNECTIONS", 2)
	v.SetDefault("DB_CONNECTION_LIFETIME", time.Hour)
	v.SetDefault("DB_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_QUERY_LOGGING", false)
	v.SetDefault("DB_RUN_MIGRATIONS", true)

	v.SetDefault("CREDENTIALS_SOURCE", "env")
	v.SetDefault("STORE_TOKEN", "")
	v.SetDefault("CREDENTIALS_SECRET_NAME", "")
	v.SetDefault("CREDENTIALS_CACHE_TTL", 5*time.Minute)

	v.SetDefault("ASYNQ_REDIS_DB", 1)
	v.SetDefault("ASYNQ_CONCURRENCY", 4)
	v.SetDefault("ASYNQ_QUEUES", "critical:6,default:3,low:1")
	v.SetDefault("ASYNQ_STRICT_PRIORITY", false)
	v.SetDefault("ASYNQ_RETRY_MAX", 3)
	v.SetDefault("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("ASYNQ_BACKUP_SCHEDULE", "@daily")

	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", time.Minute)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_ID_HEADER", "X-Request-ID")
	v.SetDefault("MAX_UPLOAD_SIZE_MB", 20)

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_MAX_HEADER_BYTES", 1<<20) // 1 MB
	v.SetDefault("SERVER_GRACEFUL_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 30*time.Second)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
