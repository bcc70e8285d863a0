// Package extractors provides read-only metadata access to external
// databases through a driver registry, so callers select a connector by
// name the same way database/sql selects its drivers.
package extractors

import (
	"fmt"
	"sort"
	"sync"
)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes an extractor driver available by the provided name.
// If Register is called twice with the same name or if driver is nil, it panics.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("extractors: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("extractors: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Open opens an extractor by driver name and connection string.
func Open(driverName, dsn string) (Extractor, error) {
	driversMu.RLock()
	driver, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("extractors: unknown driver %q (forgotten import?)", driverName)
	}
	return driver.Open(dsn)
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
