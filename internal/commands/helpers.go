// Package commands implements the CLI subcommands for the causeway binary.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dwsmith1983/causeway/internal/config"
	"github.com/dwsmith1983/causeway/internal/finalize"
	"github.com/dwsmith1983/causeway/internal/notify"
	"github.com/dwsmith1983/causeway/internal/sink"
	"github.com/dwsmith1983/causeway/internal/store"
	ddbstore "github.com/dwsmith1983/causeway/internal/store/dynamodb"
	"github.com/dwsmith1983/causeway/internal/store/memory"
	redisstore "github.com/dwsmith1983/causeway/internal/store/redis"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

const storeStartTimeout = 10 * time.Second

// newStore creates the configured store.
func newStore(cfg *types.ProjectConfig) (store.Store, error) {
	switch cfg.Store {
	case types.StoreMemory, "":
		return memory.New(), nil
	case types.StoreRedis:
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis config is required when store is redis")
		}
		return redisstore.New(cfg.Redis), nil
	case types.StoreDynamoDB:
		if cfg.DynamoDB == nil {
			return nil, fmt.Errorf("dynamodb config is required when store is dynamodb")
		}
		return ddbstore.New(cfg.DynamoDB)
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}

// openStore loads the project config and connects the configured store.
// The caller owns the returned store and must Stop it.
func openStore(ctx context.Context) (*types.ProjectConfig, store.Store, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	st, err := newStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating store: %w", err)
	}
	st = store.Instrument(st)

	startCtx, cancel := context.WithTimeout(ctx, storeStartTimeout)
	defer cancel()
	if err := st.Start(startCtx); err != nil {
		return nil, nil, fmt.Errorf("connecting to store: %w", err)
	}
	return cfg, st, nil
}

// newFinalizer assembles the finalizer from the project config.
func newFinalizer(cfg *types.ProjectConfig, st store.Store) (*finalize.Finalizer, interrupt.LogSink, error) {
	logSink, err := sink.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log sink: %w", err)
	}

	dispatcher, err := notify.NewDispatcher(cfg.Notify)
	if err != nil {
		return nil, nil, fmt.Errorf("creating notification dispatcher: %w", err)
	}

	fin := finalize.New(st, logSink,
		finalize.WithDispatcher(dispatcher),
		finalize.WithLockTTL(config.LockTTL(cfg)),
	)
	return fin, logSink, nil
}
