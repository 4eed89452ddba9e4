package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"social-app-go/pkg/logger"
)

type Config struct {
	HTTPPort       string
	Env            string
	AppURL         string
	AllowedOrigins []string
	MetricsEnabled bool
	DB             DBConfig
	Auth           AuthConfig
	Storage        StorageConfig
	Cache          CacheConfig
	Groups         GroupsConfig
	Uploads        UploadsConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	JWTSecret        string
	JWTIssuer        string
	SkipAuth         bool
	MockUserID       uint
	MockUserEmail    string
	MockUserUsername string
	MockUserName     string
}

type StorageConfig struct {
	Driver       string
	LocalRoot    string
	PublicPrefix string
	S3           S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type CacheConfig struct {
	Driver        string
	TTL           time.Duration
	MaxEntries    int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type GroupsConfig struct {
	InvitationTTL time.Duration
	FeedPageSize  int
}

type UploadsConfig struct {
	MaxAttachments    int
	MaxTotalBytes     int64
	MaxImageBytes     int64
	TimelinePageSize  int
	MultipartMemBytes int64
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "social_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTIssuer:        getEnv("JWT_ISSUER", ""),
			SkipAuth:         getEnvBool("AUTH_SKIP", false),
			MockUserID:       uint(getEnvInt("AUTH_MOCK_USER_ID", 1)),
			MockUserEmail:    getEnv("AUTH_MOCK_USER_EMAIL", "dev@example.com"),
			MockUserUsername: getEnv("AUTH_MOCK_USER_USERNAME", "dev"),
			MockUserName:     getEnv("AUTH_MOCK_USER_NAME", "Developer"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalRoot:    getEnv("STORAGE_LOCAL_ROOT", "storage/public"),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", "/storage"),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				Region:    getEnv("S3_REGION", ""),
				Bucket:    getEnv("S3_BUCKET", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				UseSSL:    getEnvBool("S3_USE_SSL", false),
			},
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			TTL:           getEnvDuration("CACHE_TTL", time.Minute),
			MaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", 1000),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Groups: GroupsConfig{
			InvitationTTL: getEnvDuration("INVITATION_TTL", 24*time.Hour),
			FeedPageSize:  getEnvInt("GROUP_FEED_PAGE_SIZE", 10),
		},
		Uploads: UploadsConfig{
			MaxAttachments:    getEnvInt("UPLOAD_MAX_ATTACHMENTS", 50),
			MaxTotalBytes:     getEnvInt64("UPLOAD_MAX_TOTAL_BYTES", 1<<30),
			MaxImageBytes:     getEnvInt64("UPLOAD_MAX_IMAGE_BYTES", 10<<20),
			TimelinePageSize:  getEnvInt("TIMELINE_PAGE_SIZE", 20),
			MultipartMemBytes: getEnvInt64("UPLOAD_MULTIPART_MEMORY", 32<<20),
		},
	}

	if !cfg.Auth.SkipAuth && cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required unless AUTH_SKIP is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	parsed, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// MigrateURL is the postgres:// form golang-migrate expects.
func (c DBConfig) MigrateURL() string {
	if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}
