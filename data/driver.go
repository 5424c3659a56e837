package data

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Drivers register themselves from init() functions, following the pattern
// of database/sql, and are looked up by the name given in configuration.

// DatabaseDriver opens relational connections.
type DatabaseDriver interface {
	// Name returns the driver identifier (e.g., "postgres", "mysql", "sqlite")
	Name() string

	// Connect opens a connection from a *config.DBNode. The returned value is
	// a *sql.DB ready for use.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close releases the connection.
	Close(conn any) error

	// Ping verifies the connection is alive.
	Ping(ctx context.Context, conn any) error
}

// SearchDriver opens search engine clients.
type SearchDriver interface {
	// Name returns the driver identifier (e.g., "elasticsearch", "meilisearch")
	Name() string

	// Connect builds a client from the engine's configuration struct.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close releases the client.
	Close(conn any) error
}

// registry holds the drivers of one kind.
type registry[D interface{ Name() string }] struct {
	kind    string
	mu      sync.RWMutex
	drivers map[string]D
}

func newRegistry[D interface{ Name() string }](kind string) *registry[D] {
	return &registry[D]{kind: kind, drivers: make(map[string]D)}
}

func (r *registry[D]) register(driver D, isNil bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isNil {
		panic(fmt.Sprintf("data: %s driver is nil", r.kind))
	}
	name := driver.Name()
	if name == "" {
		panic(fmt.Sprintf("data: %s driver name is empty", r.kind))
	}
	if _, exists := r.drivers[name]; exists {
		panic(fmt.Sprintf("data: %s driver %s registered twice", r.kind, name))
	}
	r.drivers[name] = driver
}

func (r *registry[D]) get(name string) (D, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	driver, ok := r.drivers[name]
	if !ok {
		return driver, fmt.Errorf(
			"data: %s driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"Add to your imports:\n"+
				"    _ \"github.com/ncobase/pager/data/%s\"\n\n"+
				"Available drivers: %v",
			r.kind, name, name, r.namesLocked(),
		)
	}
	return driver, nil
}

func (r *registry[D]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *registry[D]) namesLocked() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *registry[D]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = make(map[string]D)
}

var (
	databaseDrivers = newRegistry[DatabaseDriver]("database")
	searchDrivers   = newRegistry[SearchDriver]("search")
)

// RegisterDatabaseDriver makes a database driver available by its name.
// It is intended to be called from the init function in driver packages:
//
//	func init() {
//	    data.RegisterDatabaseDriver(&driver{})
//	}
//
// It panics if driver is nil, has no name or was already registered.
func RegisterDatabaseDriver(driver DatabaseDriver) {
	databaseDrivers.register(driver, driver == nil)
}

// RegisterSearchDriver makes a search engine driver available by its name.
func RegisterSearchDriver(driver SearchDriver) {
	searchDrivers.register(driver, driver == nil)
}

// GetDatabaseDriver retrieves a registered database driver by name.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	return databaseDrivers.get(name)
}

// GetSearchDriver retrieves a registered search engine driver by name.
func GetSearchDriver(name string) (SearchDriver, error) {
	return searchDrivers.get(name)
}

// ListRegisteredDrivers returns the sorted driver names keyed by kind,
// "database" and "search".
func ListRegisteredDrivers() map[string][]string {
	return map[string][]string{
		databaseDrivers.kind: databaseDrivers.names(),
		searchDrivers.kind:   searchDrivers.names(),
	}
}
