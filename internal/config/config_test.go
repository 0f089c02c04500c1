package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/causeway/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoadFullConfig(t *testing.T) {
	dir := writeConfig(t, `
store: redis
redis:
  addr: localhost:6379
  keyPrefix: "causeway-dev:"
log:
  sink: file
  path: /tmp/causeway-run.log
notify:
  - type: console
  - type: webhook
    url: https://hooks.example.com/causeway
telemetry:
  enabled: true
  endpoint: localhost:4317
lockTTL: 45s
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, types.StoreRedis, cfg.Store)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "causeway-dev:", cfg.Redis.KeyPrefix)
	assert.Equal(t, types.SinkFile, cfg.Log.Sink)
	require.Len(t, cfg.Notify, 2)
	assert.Equal(t, types.NotifyWebhook, cfg.Notify[1].Type)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 45*time.Second, LockTTL(cfg))
}

func TestLoadDefaultsToMemoryStore(t *testing.T) {
	dir := writeConfig(t, "log:\n  sink: console\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, types.StoreType(""), cfg.Store)
	assert.Equal(t, 30*time.Second, LockTTL(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown store", "store: etcd\n", "unknown store"},
		{"redis without addr", "store: redis\nredis:\n  db: 1\n", "redis.addr"},
		{"dynamodb without table", "store: dynamodb\ndynamodb:\n  region: us-east-1\n", "tableName"},
		{"file sink without path", "log:\n  sink: file\n", "log.path"},
		{"cloudwatch without stream", "log:\n  sink: cloudwatch\n  logGroup: g\n", "logStream"},
		{"webhook without url", "notify:\n  - type: webhook\n", "url"},
		{"sns without topic", "notify:\n  - type: sns\n", "topicARN"},
		{"unknown notify", "notify:\n  - type: pager\n", "unknown type"},
		{"bad lock ttl", "lockTTL: soon\n", "lockTTL"},
		{"telemetry without endpoint", "telemetry:\n  enabled: true\n", "telemetry.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
