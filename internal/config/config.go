// Package config handles loading and validation of causeway.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// FileName is the project configuration file name.
const FileName = "causeway.yaml"

// Load reads and parses causeway.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LockTTL returns the configured lock TTL, or the default when unset.
func LockTTL(cfg *types.ProjectConfig) time.Duration {
	if cfg.LockTTL == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(cfg.LockTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func validate(cfg *types.ProjectConfig) error {
	switch cfg.Store {
	case types.StoreMemory, "":
		// nothing to check
	case types.StoreRedis:
		if cfg.Redis == nil {
			return fmt.Errorf("redis config is required when store is redis")
		}
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required")
		}
	case types.StoreDynamoDB:
		if cfg.DynamoDB == nil {
			return fmt.Errorf("dynamodb config is required when store is dynamodb")
		}
		if cfg.DynamoDB.TableName == "" {
			return fmt.Errorf("dynamodb.tableName is required")
		}
	default:
		return fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.LockTTL != "" {
		if _, err := time.ParseDuration(cfg.LockTTL); err != nil {
			return fmt.Errorf("invalid lockTTL: %w", err)
		}
	}

	switch cfg.Log.Sink {
	case types.SinkConsole, "":
	case types.SinkFile:
		if cfg.Log.Path == "" {
			return fmt.Errorf("log.path is required for the file sink")
		}
	case types.SinkCloudWatch:
		if cfg.Log.LogGroup == "" || cfg.Log.LogStream == "" {
			return fmt.Errorf("log.logGroup and log.logStream are required for the cloudwatch sink")
		}
	default:
		return fmt.Errorf("unknown log sink %q", cfg.Log.Sink)
	}

	for i, n := range cfg.Notify {
		switch n.Type {
		case types.NotifyConsole:
		case types.NotifyFile:
			if n.Path == "" {
				return fmt.Errorf("notify[%d]: path is required for the file sink", i)
			}
		case types.NotifyWebhook:
			if n.URL == "" {
				return fmt.Errorf("notify[%d]: url is required for the webhook sink", i)
			}
		case types.NotifySNS:
			if n.TopicARN == "" {
				return fmt.Errorf("notify[%d]: topicARN is required for the sns sink", i)
			}
		default:
			return fmt.Errorf("notify[%d]: unknown type %q", i, n.Type)
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}

	return nil
}
