package initializers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MPESA_TIMEOUT", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200,https://kitchen.example.com")

	cfg := ReadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "8081", cfg.CallbackPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "https://sandbox.safaricom.co.ke", cfg.MpesaBaseURL)
	assert.Equal(t, 30*time.Second, cfg.MpesaTimeout)
	assert.Equal(t, []string{"http://localhost:4200", "https://kitchen.example.com"}, cfg.CORSOrigins)
}

func TestConfigRequire(t *testing.T) {
	t.Setenv("DB_DSN", "root:secret@tcp(localhost:3306)/kitchen?parseTime=true")
	t.Setenv("JWT_SECRET", "")

	cfg := ReadConfig()
	require.NoError(t, cfg.Require("DB_DSN"))
	assert.EqualError(t, cfg.Require("DB_DSN", "JWT_SECRET"), "JWT_SECRET is not set")
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("postgres", "")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestCheckDSNLocation(t *testing.T) {
	require.NoError(t, CheckDSNLocation("root:secret@tcp(localhost:3306)/kitchen?parseTime=true&loc=Africa%2FNairobi"))

	for _, dsn := range []string{
		"root:secret@tcp(localhost:3306)/kitchen",
		"root:secret@tcp(localhost:3306)/kitchen?parseTime=true",
		"root:secret@tcp(localhost:3306)/kitchen?parseTime=true&loc=UTC",
	} {
		assert.ErrorContains(t, CheckDSNLocation(dsn), "loc=Africa%2FNairobi", dsn)
	}
}

func TestOpenDBRejectsMySQLWithoutNairobiLoc(t *testing.T) {
	_, err := OpenDB("mysql", "root:secret@tcp(localhost:3306)/kitchen?parseTime=true")
	assert.ErrorContains(t, err, "DB_DSN must set loc")
}
