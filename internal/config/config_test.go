package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "invoices")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "invoices")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=localhost port=5432 user=invoices password=secret dbname=invoices sslmode=disable", cfg.DB.DSN)
	assert.Equal(t, int64(24), cfg.JWTExpirationHours)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, ArtifactBackendLocal, cfg.ArtifactBackend)
	assert.Equal(t, "invoices", cfg.ArtifactDir)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, 5, cfg.LoginRateBurst)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ARTIFACT_BACKEND", "S3")
	t.Setenv("S3_BUCKET", "invoice-pdfs")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2), cfg.JWTExpirationHours)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, ArtifactBackendS3, cfg.ArtifactBackend)
	assert.Equal(t, "invoice-pdfs", cfg.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_TrustedProxies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,192.168.0.0/16 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestLoad_InvalidNumberFallsBackToDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRATION_HOURS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(24), cfg.JWTExpirationHours)
}

func TestLoad_MissingDB(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_MissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestValidate_S3RequiresBucket(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARTIFACT_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestValidate_UnknownBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARTIFACT_BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ARTIFACT_BACKEND")
}

func TestValidate_BcryptCostOutOfRange(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load()
	assert.Error(t, err)
}
