// Package mysql registers a MySQL database driver backed by
// go-sql-driver/mysql:
//
//	import _ "github.com/ncobase/pager/data/mysql"
//
// Sources use the driver's DSN format:
//
//	user:password@tcp(localhost:3306)/dbname?parseTime=true&charset=utf8mb4
package mysql

import (
	"context"

	"github.com/ncobase/pager/data"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

type driver struct{}

func (d *driver) Name() string { return "mysql" }

func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "mysql", cfg, data.PoolDefaults{})
}

func (d *driver) Close(conn any) error { return data.CloseSQL(d.Name(), conn) }

func (d *driver) Ping(ctx context.Context, conn any) error { return data.PingSQL(ctx, d.Name(), conn) }

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
