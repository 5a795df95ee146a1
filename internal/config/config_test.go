package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "JWT_SECRET", "JWT_TTL", "MONGODB_URI", "MONGODB_DB_NAME",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL",
	"WHATSAPP_API_VERSION",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "DEFAULT_FEED_PRICE_PER_KG", "STORAGE_DRIVER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, StorageMongoDB, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "fish_farm_db", cfg.MongoDB.DBName)
	assert.Equal(t, "0 6 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, 1.5, cfg.Advisory.FeedPricePerKg)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "JWT_SECRET=file-secret-value-123\nAPP_PORT=9090\nDEFAULT_FEED_PRICE_PER_KG=2.25\nJWT_TTL=1h\n")

	// godotenv does not override variables that are already set, even empty ones
	for _, key := range []string{"JWT_SECRET", "APP_PORT", "DEFAULT_FEED_PRICE_PER_KG", "JWT_TTL"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "file-secret-value-123", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 2.25, cfg.Advisory.FeedPricePerKg)

	for _, key := range []string{"JWT_SECRET", "APP_PORT", "DEFAULT_FEED_PRICE_PER_KG", "JWT_TTL"} {
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":     {},
		"short secret":       {"JWT_SECRET": "short"},
		"bad ttl":            {"JWT_SECRET": "0123456789abcdef", "JWT_TTL": "soon"},
		"bad price":          {"JWT_SECRET": "0123456789abcdef", "DEFAULT_FEED_PRICE_PER_KG": "cheap"},
		"zero price":         {"JWT_SECRET": "0123456789abcdef", "DEFAULT_FEED_PRICE_PER_KG": "0"},
		"nan price":          {"JWT_SECRET": "0123456789abcdef", "DEFAULT_FEED_PRICE_PER_KG": "NaN"},
		"infinite price":     {"JWT_SECRET": "0123456789abcdef", "DEFAULT_FEED_PRICE_PER_KG": "+Inf"},
		"half sheets config": {"JWT_SECRET": "0123456789abcdef", "GOOGLE_SHEET_DATABASE_ID": "sheet"},
		"bad timezone":       {"JWT_SECRET": "0123456789abcdef", "TIMEZONE": "Mars/Olympus"},
		"whatsapp no phone":  {"JWT_SECRET": "0123456789abcdef", "WHATSAPP_TOKEN": "tok"},
		"unknown storage":    {"JWT_SECRET": "0123456789abcdef", "STORAGE_DRIVER": "postgres"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoadMemoryStorage(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("STORAGE_DRIVER", "Memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
}

func TestWhatsAppEnabled(t *testing.T) {
	w := WhatsAppConfig{AccessToken: "t"}
	assert.False(t, w.Enabled())
	w.PhoneNumberID = "p"
	assert.True(t, w.Enabled())
}

func TestValidateNil(t *testing.T) {
	var c *Config
	assert.Error(t, c.Validate())
}
