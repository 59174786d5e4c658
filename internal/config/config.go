// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultCORSOrigins are the web clients allowed to call the API.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://visual-caption-4fpe.onrender.com",
	"https://visualcaption.onrender.com",
	"http://localhost:5173",
	"https://visualcaption2.onrender.com",
	"https://vs-eakx.onrender.com",
}

// Config holds all configuration for the application.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDB     string `mapstructure:"MONGO_DB"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
	OTPTTL     time.Duration `mapstructure:"OTP_TTL"`
	OTPBackend string        `mapstructure:"OTP_BACKEND"`

	CaptionEndpoint string        `mapstructure:"CAPTION_ENDPOINT"`
	CaptionTimeout  time.Duration `mapstructure:"CAPTION_TIMEOUT"`
	VisionAPIKey    string        `mapstructure:"VISION_API_KEY"`
	VisionBaseURL   string        `mapstructure:"VISION_BASE_URL"`
	VisionModel     string        `mapstructure:"VISION_MODEL"`

	BlobProvider    string `mapstructure:"BLOB_PROVIDER"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`
	MinioEndpoint   string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey  string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey  string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket     string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL     bool   `mapstructure:"MINIO_USE_SSL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AdminAuthRequired  bool   `mapstructure:"ADMIN_AUTH_REQUIRED"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB", "visualCaption")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("OTP_TTL", 5*time.Minute)
	v.SetDefault("OTP_BACKEND", "memory")
	v.SetDefault("CAPTION_ENDPOINT", "https://kRnos22-image-caption-vi.hf.space/predict")
	v.SetDefault("CAPTION_TIMEOUT", 30*time.Second)
	v.SetDefault("VISION_API_KEY", "")
	v.SetDefault("VISION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("VISION_MODEL", "gemini-1.5-flash-001")
	v.SetDefault("BLOB_PROVIDER", "s3")
	v.SetDefault("S3_REGION", "ap-southeast-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "uploads")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "465")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(DefaultCORSOrigins, ","))
	v.SetDefault("ADMIN_AUTH_REQUIRED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.OTPBackend {
	case "memory", "database":
	default:
		return nil, fmt.Errorf("unknown OTP_BACKEND %q", cfg.OTPBackend)
	}
	switch cfg.BlobProvider {
	case "s3", "minio":
	default:
		return nil, fmt.Errorf("unknown BLOB_PROVIDER %q", cfg.BlobProvider)
	}
	return &cfg, nil
}

// New returns a viper instance with every default registered, for callers that
// want to override values before FromViper.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SMTPConfigured reports whether SMTP credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// NewLogger builds the application logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
