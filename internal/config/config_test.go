package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/qrprofile/internal/qrcode"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 8, cfg.QR.ModuleSize)
	assert.Equal(t, qrcode.Medium, cfg.QR.ErrorLevel())
	assert.Equal(t, 24*time.Hour, cfg.QR.CacheTTL)
	assert.Equal(t, "Profile QR", cfg.App.Name)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("QR_LEVEL", "h")
	t.Setenv("QR_MODULE_SIZE", "12")
	t.Setenv("QR_CACHE_TTL", "60")
	t.Setenv("TRUSTED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:/tmp/p.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Database.SQLiteDSN())
	assert.Equal(t, "cache:6379", cfg.Redis.Address())
	assert.Equal(t, qrcode.High, cfg.QR.ErrorLevel())
	assert.Equal(t, 12, cfg.QR.ModuleSize)
	assert.Equal(t, time.Minute, cfg.QR.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"module size", "QR_MODULE_SIZE", "0", "QR_MODULE_SIZE"},
		{"level", "QR_LEVEL", "Z", "QR_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "require", ChannelBinding: "require"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=require channel_binding=require", c.ConnectionString())
}
