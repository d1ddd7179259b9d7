package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

type Options struct {
	Driver    string
	Path      string
	DSN       string
	RedisAddr string
}

// Open picks the backing store for the configured driver.
func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Driver {
	case "", "file":
		return NewFileStore(o.Path)
	case "sqlite":
		dsn := o.DSN
		if dsn == "" {
			dsn = strings.TrimSuffix(o.Path, filepath.Ext(o.Path)) + ".db"
		}
		return OpenGorm(ctx, "sqlite", dsn)
	case "postgres":
		return OpenGorm(ctx, "postgres", o.DSN)
	case "redis":
		return OpenRedis(ctx, o.RedisAddr)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", o.Driver)
	}
}
