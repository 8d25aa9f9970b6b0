package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	ArtifactBackendLocal = "local"
	ArtifactBackendS3    = "s3"
)

// Config holds everything the server needs at startup
type Config struct {
	DB *DBConfig

	JWTSecret          string
	JWTExpirationHours int64
	ServerPort         string
	GinMode            string
	BcryptCost         int

	ArtifactBackend string
	ArtifactDir     string
	S3              S3Config

	LoginRatePerMinute int
	LoginRateBurst     int
	// TrustedProxies lists the proxies whose X-Forwarded-For is believed.
	// Empty means the peer address is always the client IP.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

// S3Config holds object storage settings for generated invoices
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional, for MinIO and other S3-compatible stores
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads the configuration from environment variables.
// Call godotenv.Load before this if a .env file should be honoured.
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DB:                 dbCfg,
		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		JWTExpirationHours: int64(intFromEnv("JWT_EXPIRATION_HOURS", 24)),
		ServerPort:         stringFromEnv("SERVER_PORT", "8080"),
		GinMode:            os.Getenv("GIN_MODE"),
		BcryptCost:         intFromEnv("BCRYPT_COST", bcrypt.DefaultCost),
		ArtifactBackend:    strings.ToLower(stringFromEnv("ARTIFACT_BACKEND", ArtifactBackendLocal)),
		ArtifactDir:        stringFromEnv("ARTIFACT_DIR", "invoices"),
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          stringFromEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		LoginRatePerMinute: intFromEnv("LOGIN_RATE_PER_MINUTE", 10),
		LoginRateBurst:     intFromEnv("LOGIN_RATE_BURST", 5),
		TrustedProxies:     listFromEnv("TRUSTED_PROXIES"),
		LogLevel:           stringFromEnv("LOG_LEVEL", "info"),
		LogFormat:          stringFromEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	switch c.ArtifactBackend {
	case ArtifactBackendLocal:
		if c.ArtifactDir == "" {
			return fmt.Errorf("ARTIFACT_DIR must not be empty for the local artifact backend")
		}
	case ArtifactBackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set for the s3 artifact backend")
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_BACKEND %q (want %q or %q)", c.ArtifactBackend, ArtifactBackendLocal, ArtifactBackendS3)
	}
	if c.LoginRatePerMinute <= 0 || c.LoginRateBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE and LOGIN_RATE_BURST must be positive")
	}
	return nil
}

func stringFromEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// intFromEnv falls back to def when the variable is unset or not a number
func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// listFromEnv splits a comma separated variable, dropping empty entries
func listFromEnv(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
