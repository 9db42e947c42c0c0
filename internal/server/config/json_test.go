package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http": "www.example:9000",
		"database_dsn":       "pages.db",
		"shutdown_timeout":   "1m",
		"s3_root_user":       "user",
		"s3_root_password":   "password",
		"s3_bucket":          "bucket",
		"s3_region":          "region",
		"s3_base_endpoint":   "base_endpoint",
		"s3_key_prefix":      "prefix",
		"redis_addr":         "redis:6379",
		"edge_nodes":         []string{"edge-a", "edge-b"},
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "pages.db", cfg.DatabaseDSN)
		assert.Equal(t, 1*time.Minute, cfg.ShutdownTimeout)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "prefix", cfg.S3KeyPrefix)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, []string{"edge-a", "edge-b"}, cfg.EdgeNodes)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP: "defaults:1234",
			DatabaseDSN:      "pages.db",
			ShutdownTimeout:  2 * time.Minute,
			S3RootUser:       "s3root",
			S3RootPassword:   "s3rootpassword",
			S3Bucket:         "s3bucket",
			S3Region:         "s3region",
			S3BaseEndpoint:   "s3baseendpoint",
			S3KeyPrefix:      "s3prefix",
			RedisAddr:        "redis:1111",
			EdgeNodes:        []string{"edge-z"},
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "pages.db", cfg.DatabaseDSN)
		assert.Equal(t, 2*time.Minute, cfg.ShutdownTimeout)
		assert.Equal(t, "s3root", cfg.S3RootUser)
		assert.Equal(t, "s3rootpassword", cfg.S3RootPassword)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
		assert.Equal(t, "s3region", cfg.S3Region)
		assert.Equal(t, "s3baseendpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "s3prefix", cfg.S3KeyPrefix)
		assert.Equal(t, "redis:1111", cfg.RedisAddr)
		assert.Equal(t, []string{"edge-z"}, cfg.EdgeNodes)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
