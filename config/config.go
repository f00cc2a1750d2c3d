package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Tickets   TicketsConfig
	Capacity  CapacityConfig
	Admin     AdminConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AWS       AWSConfig
	Email     EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	PublicBaseURL      string // absolute base URL for ticket links (e.g. https://reunion.example.com)
	StaticDir          string // directory of static assets; empty disables static serving
}

// StoreConfig selects and configures the registration store.
type StoreConfig struct {
	Driver      string // "file" or "postgres"
	FilePath    string // JSON file for the file driver
	DatabaseURL string // DSN for the postgres driver
}

// TicketsConfig holds QR artifact settings.
type TicketsConfig struct {
	QRDir    string // directory for QR PNGs with the filesystem artifact store
	S3Bucket string // when set (with AWS creds), artifacts go to S3 instead
}

// CapacityConfig holds per-session registration caps. Zero means uncapped.
type CapacityConfig struct {
	Ceremony int
	Festival int
	Sports   int
}

// AdminConfig holds the basic-auth gate for admin endpoints.
// Password may be a bcrypt hash ($2a$... / $2b$...) or plaintext.
type AdminConfig struct {
	User     string
	Password string
}

// RedisConfig holds Redis connection settings (rate limiter + email queue).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds per-IP submit rate limiting settings.
type RateLimitConfig struct {
	Enabled bool
	Max     int           // requests per window per IP
	Window  time.Duration // window length
}

// AWSConfig holds AWS credentials for the S3 artifact store.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// EmailConfig for confirmation emails sent by the worker via SMTP.
// Empty SMTPHost disables sending (jobs are logged and acked).
type EmailConfig struct {
	FromAddress string
	FromName    string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			StaticDir:          getEnv("STATIC_DIR", "public"),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "file"),
			FilePath:    getEnv("STORE_FILE", "data/registrations.json"),
			DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/reunion?sslmode=disable"),
		},
		Tickets: TicketsConfig{
			QRDir:    getEnv("QR_DIR", "data/qr"),
			S3Bucket: getEnv("QR_S3_BUCKET", ""),
		},
		Capacity: CapacityConfig{
			Ceremony: getEnvInt("CAPACITY_CEREMONY", 200),
			Festival: getEnvInt("CAPACITY_FESTIVAL", 0),
			Sports:   getEnvInt("CAPACITY_SPORTS", 0),
		},
		Admin: AdminConfig{
			User:     getEnv("ADMIN_USER", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Max:     getEnvInt("RATE_LIMIT_MAX", 20),
			Window:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Email: EmailConfig{
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@example.com"),
			FromName:    getEnv("EMAIL_FROM_NAME", "Reunion Registration"),
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnvInt("SMTP_PORT", 587),
			SMTPUser:    getEnv("SMTP_USER", ""),
			SMTPPass:    getEnv("SMTP_PASS", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
