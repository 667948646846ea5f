package cmd_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch/cmd"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("PAYMENT_SECRET", "pay")

	cfg, err := cmd.LoadConfig(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "dispatch", cfg.DBName)
	assert.Equal(t, 2*time.Second, cfg.PushTimeout)
	assert.Equal(t, time.Minute, cfg.RebroadcastAfter)
	assert.Equal(t, "*/30 * * * * *", cfg.RebroadcastSchedule)
	assert.Empty(t, cfg.Brokers())

	fee, err := cfg.Fee()
	require.NoError(t, err)
	assert.Equal(t, "50.00", fee.String())
	rate, err := cfg.CommissionRate()
	require.NoError(t, err)
	assert.Equal(t, "15", rate.Percentage().String())
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("PAYMENT_SECRET", "pay")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DELIVERY_FEE", "35.5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PUSH_TIMEOUT", "500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := cmd.LoadConfig(noEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "host=db.internal port=5432 user= password= dbname=dispatch sslmode=disable", cfg.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, 500*time.Millisecond, cfg.PushTimeout)
	fee, err := cfg.Fee()
	require.NoError(t, err)
	assert.Equal(t, "35.50", fee.String())
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nPAYMENT_SECRET=pay\nHTTP_PORT=9090\n"), 0o600))
	t.Setenv("HTTP_PORT", "7070")
	// Registered so the variables godotenv sets are restored after the test.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PAYMENT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("PAYMENT_SECRET"))

	cfg, err := cmd.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "7070", cfg.HTTPPort)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PAYMENT_SECRET", "")
	t.Setenv("DEFAULT_COMMISSION_RATE", "120")
	t.Setenv("DELIVERY_FEE", "abc")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := cmd.LoadConfig(noEnvFile(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "PAYMENT_SECRET")
	assert.Contains(t, err.Error(), "DELIVERY_FEE")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestConfig_Validate_CommissionPrecision(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("PAYMENT_SECRET", "pay")
	t.Setenv("DEFAULT_COMMISSION_RATE", "12.345")

	_, err := cmd.LoadConfig(noEnvFile(t))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "DEFAULT_COMMISSION_RATE")
}
