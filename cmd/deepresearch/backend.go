package main

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jemygraw/deepresearch/store"
	"github.com/jemygraw/deepresearch/store/memory"
	"github.com/jemygraw/deepresearch/store/postgres"
	"github.com/jemygraw/deepresearch/store/redis"
	"github.com/jemygraw/deepresearch/store/sqlite"
)

const (
	defaultSQLitePath = "deepresearch.db"
	defaultRedisAddr  = "localhost:6379"
)

// openHistory opens the snapshot store named by backend. The "none" backend returns a nil
// store. The returned close function is always non-nil.
func openHistory(ctx context.Context, backend, dsn string) (store.SnapshotStore, func(), error) {
	noop := func() {}
	switch backend {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return memory.New(), noop, nil
	case "sqlite":
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		s, err := sqlite.New(sqlite.Options{Path: dsn})
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite history %s: %w", dsn, err)
		}
		return s, func() { _ = s.Close() }, nil
	case "redis":
		s, err := openRedis(dsn)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		if dsn == "" {
			return nil, noop, fmt.Errorf("postgres history needs HISTORY_DSN or --history-dsn")
		}
		s, err := postgres.New(ctx, postgres.Options{ConnString: dsn})
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres history: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown history backend %q", backend)
	}
}

// openRedis accepts either a host:port address or a redis:// URL.
func openRedis(dsn string) (*redis.Store, error) {
	if dsn == "" {
		dsn = defaultRedisAddr
	}
	if !strings.Contains(dsn, "://") {
		return redis.New(redis.Options{Addr: dsn}), nil
	}
	opt, err := goredis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewWithClient(goredis.NewClient(opt), "", 0), nil
}
