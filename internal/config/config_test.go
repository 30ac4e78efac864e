package config

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "APP_ENV", "DB_DRIVER", "MODEL_RETRAIN_EVERY", "PLAID_ENV", "PLAID_BASE_URL",
		"CORS_ALLOW_ORIGINS", "JWT_PRIVATE_KEY", "JWT_PUBLIC_KEY")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Database.IsSQLite())
	assert.Equal(t, "models/expense_model.json", cfg.Model.ArtifactPath)
	assert.Equal(t, 5, cfg.Model.MinTrainingSamples)
	assert.Equal(t, 100, cfg.Model.RetrainEvery)
	assert.Equal(t, time.Hour, cfg.Model.RetrainInterval)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxReceiptBytes)
	assert.Equal(t, "https://sandbox.plaid.com", cfg.Bank.BaseURL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	require.NotNil(t, cfg.JWT.PrivateKey)
	assert.Equal(t, &cfg.JWT.PrivateKey.PublicKey, cfg.JWT.PublicKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t, "JWT_PRIVATE_KEY", "JWT_PUBLIC_KEY", "PLAID_BASE_URL")
	t.Setenv("APP_ENV", "testing")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/expenses.db")
	t.Setenv("MODEL_RETRAIN_EVERY", "25")
	t.Setenv("MODEL_RETRAIN_INTERVAL", "10m")
	t.Setenv("MODEL_RETRAIN_ENABLED", "false")
	t.Setenv("PLAID_ENV", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.True(t, cfg.IsTesting())
	assert.True(t, cfg.Database.IsSQLite())
	assert.Equal(t, "/tmp/expenses.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Model.RetrainEvery)
	assert.Equal(t, 10*time.Minute, cfg.Model.RetrainInterval)
	assert.False(t, cfg.Model.RetrainEnabled)
	assert.Equal(t, "https://production.plaid.com", cfg.Bank.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowOrigins)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t, "JWT_PRIVATE_KEY", "JWT_PUBLIC_KEY", "APP_ENV")
	t.Setenv("MODEL_MIN_TRAINING_SAMPLES", "lots")
	t.Setenv("MODEL_RETRAIN_ENABLED", "sometimes")
	t.Setenv("PLAID_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 5, cfg.Model.MinTrainingSamples)
	assert.True(t, cfg.Model.RetrainEnabled)
	assert.Equal(t, 15*time.Second, cfg.Bank.Timeout)
}

func TestLoad_KeysFromEnvironment(t *testing.T) {
	clearEnv(t, "APP_ENV")

	private, public, err := GenerateRSAKeyPair()
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(public)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(private)})
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	t.Setenv("JWT_PRIVATE_KEY", base64.StdEncoding.EncodeToString(privatePEM))
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(publicPEM))

	cfg := Load()

	assert.True(t, private.Equal(cfg.JWT.PrivateKey))
	assert.True(t, public.Equal(cfg.JWT.PublicKey))
}

func TestLoadKeysFromEnvVars_Invalid(t *testing.T) {
	cfg := &Config{}

	_, _, err := cfg.loadKeysFromEnvVars("not base64!", "also not")
	assert.Error(t, err)

	garbage := base64.StdEncoding.EncodeToString([]byte("no pem here"))
	_, _, err = cfg.loadKeysFromEnvVars(garbage, garbage)
	assert.ErrorContains(t, err, "failed to parse private key")
}

func TestStorageConfig_S3URL(t *testing.T) {
	cfg := &StorageConfig{Bucket: "receipts", Region: "eu-west-1"}

	assert.Equal(t, "https://receipts.s3.eu-west-1.amazonaws.com/u/t.png", cfg.S3URL("u/t.png"))
}
