package search

import (
	"fmt"
	"sort"
	"sync"
)

// AdapterFactory creates search adapters from data connections
type AdapterFactory func(conn any) (Adapter, error)

var (
	adapterFactories   = make(map[Engine]AdapterFactory)
	adapterFactoriesMu sync.RWMutex
)

// RegisterAdapterFactory registers a factory for creating search adapters.
// This is called by search driver packages in their init() functions.
func RegisterAdapterFactory(engine Engine, factory AdapterFactory) {
	adapterFactoriesMu.Lock()
	defer adapterFactoriesMu.Unlock()
	adapterFactories[engine] = factory
}

// GetAdapterFactory returns the factory for a given engine
func GetAdapterFactory(engine Engine) (AdapterFactory, error) {
	adapterFactoriesMu.RLock()
	defer adapterFactoriesMu.RUnlock()

	factory, ok := adapterFactories[engine]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter factory registered for %s", ErrEngineNotFound, engine)
	}
	return factory, nil
}

// NewAdapter builds the adapter of engine around a connection returned by the
// engine's data.SearchDriver.
func NewAdapter(engine Engine, conn any) (Adapter, error) {
	factory, err := GetAdapterFactory(engine)
	if err != nil {
		return nil, err
	}
	return factory(conn)
}

// GetRegisteredEngines returns the engines with registered factories, sorted.
func GetRegisteredEngines() []Engine {
	adapterFactoriesMu.RLock()
	defer adapterFactoriesMu.RUnlock()

	engines := make([]Engine, 0, len(adapterFactories))
	for engine := range adapterFactories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}
