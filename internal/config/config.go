package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	Currency    string

	OTLPEndpoint string

	Session     SessionConfig
	LeadCapture LeadCaptureConfig
	Email       EmailConfig
	RateLimit   RateLimitConfig
	Archive     ArchiveConfig
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type LeadCaptureConfig struct {
	URL     string
	Timeout time.Duration
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Enabled reports whether quotation confirmation mails can be sent.
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// ArchiveConfig points at the S3-compatible bucket issued quotations are
// copied to. An empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

func (c ArchiveConfig) Enabled() bool {
	return c.Bucket != ""
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QuoteSubmitRate        float64
	QuoteSubmitBurst       int
	QuoteSubmitLockTTLSecs int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "quoteflow"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		Currency:     strings.ToUpper(getenv("CURRENCY", "IDR")),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		Session: SessionConfig{
			TTL:           time.Duration(getenvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			SweepInterval: time.Duration(getenvInt("SESSION_SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		},
		LeadCapture: LeadCaptureConfig{
			URL:     strings.TrimSpace(getenv("LEAD_CAPTURE_URL", "")),
			Timeout: time.Duration(getenvInt("LEAD_CAPTURE_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Email: EmailConfig{
			SMTPHost:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: strings.TrimSpace(getenv("SMTP_USERNAME", "")),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     strings.TrimSpace(getenv("SMTP_FROM", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:                getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:              strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "localhost:6379")),
			RedisPassword:          getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:                getenvInt("RATE_LIMIT_REDIS_DB", 0),
			QuoteSubmitRate:        getenvFloat("QUOTE_SUBMIT_RATE", 0.2),
			QuoteSubmitBurst:       getenvInt("QUOTE_SUBMIT_BURST", 3),
			QuoteSubmitLockTTLSecs: getenvInt("QUOTE_SUBMIT_LOCK_TTL_SECONDS", 10),
		},
		Archive: ArchiveConfig{
			Bucket:          strings.TrimSpace(getenv("QUOTATION_ARCHIVE_BUCKET", "")),
			Region:          strings.TrimSpace(getenv("QUOTATION_ARCHIVE_REGION", "ap-southeast-3")),
			EndpointURL:     strings.TrimSpace(getenv("QUOTATION_ARCHIVE_ENDPOINT_URL", "")),
			AccessKeyID:     strings.TrimSpace(getenv("QUOTATION_ARCHIVE_ACCESS_KEY_ID", "")),
			SecretAccessKey: getenv("QUOTATION_ARCHIVE_SECRET_ACCESS_KEY", ""),
			Prefix:          strings.Trim(strings.TrimSpace(getenv("QUOTATION_ARCHIVE_PREFIX", "quotations")), "/"),
		},
	}

	return cfg
}

// IsProduction reports whether the service runs in a production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
