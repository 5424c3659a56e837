package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/pager/data/config"
)

// PoolDefaults holds the pool sizes a driver falls back to when the node
// configuration leaves them at zero.
type PoolDefaults struct {
	MaxIdleConn int
	MaxOpenConn int
}

// OpenSQL opens a database/sql handle for a registered driver, applies the
// pool configuration and verifies the connection with a ping.
func OpenSQL(ctx context.Context, name, sqlDriver string, cfg any, defaults PoolDefaults) (*sql.DB, error) {
	node, ok := cfg.(*config.DBNode)
	if !ok {
		return nil, fmt.Errorf("%s: invalid configuration type, expected *config.DBNode", name)
	}
	if node.Source == "" {
		return nil, fmt.Errorf("%s: connection source is empty", name)
	}

	db, err := sql.Open(sqlDriver, node.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", name, err)
	}

	db.SetMaxIdleConns(firstPositive(node.MaxIdleConn, defaults.MaxIdleConn))
	if n := firstPositive(node.MaxOpenConn, defaults.MaxOpenConn); n > 0 {
		db.SetMaxOpenConns(n)
	}
	if node.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(node.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", name, err)
	}
	return db, nil
}

// CloseSQL closes a handle returned by OpenSQL.
func CloseSQL(name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("%s: failed to close connection: %w", name, err)
	}
	return nil
}

// PingSQL checks a handle returned by OpenSQL.
func PingSQL(ctx context.Context, name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping failed: %w", name, err)
	}
	return nil
}

// Connect looks up the database driver named by node and opens it.
func Connect(ctx context.Context, node *config.DBNode) (*sql.DB, error) {
	if node == nil {
		return nil, fmt.Errorf("data: database node is nil")
	}
	driver, err := GetDatabaseDriver(node.Driver)
	if err != nil {
		return nil, err
	}
	conn, err := driver.Connect(ctx, node)
	if err != nil {
		return nil, err
	}
	db, ok := conn.(*sql.DB)
	if !ok {
		_ = driver.Close(conn)
		return nil, fmt.Errorf("data: driver %s returned %T, expected *sql.DB", node.Driver, conn)
	}
	return db, nil
}

func firstPositive(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
