package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
dbname = "appointments"
user = "mybakup"
password = "from-file"

[redis]
addr = "redis:6379"

[profile_service]
url = "http://profiles"

[geolocation]
url = "http://geo"
requests_per_second = 2.5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "mybakup:wizard:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 120, cfg.Wizard.SessionTTLMinutes)
	assert.Equal(t, 2.5, cfg.Geolocation.RequestsPerSecond)
	assert.Equal(t, 20, cfg.Geolocation.Burst)
	assert.Equal(t, "host=db port=5432 user=mybakup password=from-file dbname=appointments sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_PASSWORD", "redis-secret")
	t.Setenv("HTTP_PORT", "7000")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis-secret", cfg.Redis.Password)
	assert.Equal(t, 7000, cfg.Server.HTTPPort)
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "abc")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Database.DBName = "appointments"
		c.ProfileService.URL = "http://profiles"
		c.Geolocation.URL = "http://geo"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }, true},
		{"no dbname", func(c *Config) { c.Database.DBName = "" }, true},
		{"no redis", func(c *Config) { c.Redis.Addr = "" }, true},
		{"no profile service", func(c *Config) { c.ProfileService.URL = "" }, true},
		{"no geolocation", func(c *Config) { c.Geolocation.URL = "" }, true},
		{"notifier without url", func(c *Config) { c.Notifier.Enabled = true }, true},
		{"zero ttl", func(c *Config) { c.Wizard.SessionTTLMinutes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
