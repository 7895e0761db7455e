package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
port = 8080
api_base_url = "http://localhost:5045/"
session_store = "memory"
log_level = "debug"

[production]
host = "0.0.0.0"
port = 80
public_base_url = "https://blogs.example.com/"
session_store = "redis"
redis_host = "redis"
api_timeout_seconds = 3
allowed_origins = ["https://blogs.example.com"]
trust_proxy_headers = true
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeTestConfig(t, testToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:5045", cfg.ApiBaseURL)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ApiTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, "6379", cfg.RedisPort)
}

func TestLoad_Production(t *testing.T) {
	path := writeTestConfig(t, testToml)

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "https://blogs.example.com", cfg.PublicBaseURL)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, "redis", cfg.RedisHost)
	assert.Equal(t, 3*time.Second, cfg.ApiTimeout())
	assert.Equal(t, []string{"https://blogs.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, []string{"https://blogs.example.com"}, cfg.CorsOrigins())
}

func TestConfig_CorsOrigins(t *testing.T) {
	cfg := &Config{
		PublicBaseURL:  "http://127.0.0.1:3000/blogs",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3000/", ""},
	}
	assert.Equal(t, []string{"http://127.0.0.1:3000", "http://localhost:3000"}, cfg.CorsOrigins())

	cfg = &Config{}
	assert.Empty(t, cfg.CorsOrigins())
}

func TestLoad_ApiBaseURLFromEnv(t *testing.T) {
	path := writeTestConfig(t, testToml)
	t.Setenv(apiBaseURLEnvVar, "http://blog-api:9000")

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "http://blog-api:9000", cfg.ApiBaseURL)
}

func TestLoad_Errors(t *testing.T) {
	path := writeTestConfig(t, testToml)

	_, err := Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	onlyDev := writeTestConfig(t, "[development]\nport = 1\n")
	_, err = Load("prod", onlyDev)
	assert.EqualError(t, err, "config section for env [production] missing")

	redisNoHost := writeTestConfig(t, "[development]\nsession_store = \"redis\"\n")
	_, err = Load("dev", redisNoHost)
	assert.ErrorContains(t, err, "needs redis_host")

	unknownStore := writeTestConfig(t, "[development]\nsession_store = \"etcd\"\n")
	_, err = Load("dev", unknownStore)
	assert.ErrorContains(t, err, "unknown session store: etcd")
}
