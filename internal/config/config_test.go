package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	path := writeConfig(t, `
[backend]
url = "http://localhost:8081"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Forms.FetchTimeout)
	assert.Equal(t, 1800, cfg.Forms.IdleTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://api.example.com")
	t.Setenv(EnvRedisPassword, "redis-secret")
	t.Setenv(EnvDatabasePassword, "db-secret")

	path := writeConfig(t, `
[backend]
url = "http://localhost:8081"
rate_per_second = 20

[redis]
password = "from-file"

[database]
enabled = true
host = "db"
port = 5432
user = "booking"
dbname = "booking_form"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, 20.0, cfg.Backend.RatePerSecond)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	assert.Equal(t, "host='db' port=5432 user='booking' password='db-secret' dbname='booking_form' sslmode='disable'", cfg.Database.DSN())
}

func TestDatabaseConfig_DSNQuoting(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{name: "space", password: "p@ss word", want: `password='p@ss word'`},
		{name: "quote", password: "it's", want: `password='it\'s'`},
		{name: "backslash", password: `a\b`, want: `password='a\\b'`},
		{name: "empty", password: "", want: `password=''`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DatabaseConfig{Host: "db", Port: 5432, User: "booking", Password: tt.password, DBName: "booking_form", SSLMode: "disable"}
			dsn := d.DSN()
			assert.Contains(t, dsn, tt.want)

			// строка должна разбираться драйвером
			_, err := pq.NewConnector(dsn)
			require.NoError(t, err)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvBackendURL, "")

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing backend url", content: `[server]
http_port = 8080`},
		{name: "relative backend url", content: `[backend]
url = "localhost"`},
		{name: "unknown timezone", content: `[app]
timezone = "Mars/Olympus"
[backend]
url = "http://localhost:8081"`},
		{name: "journal without host", content: `[backend]
url = "http://localhost:8081"
[database]
enabled = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
