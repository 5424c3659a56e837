// Package sqlite registers a SQLite database driver backed by
// mattn/go-sqlite3 (CGO):
//
//	import _ "github.com/ncobase/pager/data/sqlite"
//
// Connection strings are file paths or URIs, e.g. "file:pager.db?cache=shared"
// or "file::memory:?cache=shared". Without a configured limit the pool is held
// to one open connection, which keeps an in-memory database alive and writes
// serialized.
package sqlite

import (
	"context"

	"github.com/ncobase/pager/data"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type driver struct{}

func (d *driver) Name() string { return "sqlite" }

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "sqlite3", cfg, data.PoolDefaults{MaxIdleConn: 2, MaxOpenConn: 1})
}

func (d *driver) Close(conn any) error { return data.CloseSQL(d.Name(), conn) }

func (d *driver) Ping(ctx context.Context, conn any) error { return data.PingSQL(ctx, d.Name(), conn) }

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
