package tester

import (
	"fmt"
	"slices"
	"sync"
)

// Factory creates a fresh examples value.
type Factory func() any

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes the examples created by factory available under name.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("register examples: empty name")
	}
	if factory == nil {
		return fmt.Errorf("register examples %q: nil factory", name)
	}

	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.factories[name]; dup {
		return fmt.Errorf("register examples %q: already registered", name)
	}
	registry.factories[name] = factory
	return nil
}

// MustRegister is Register for package initialization; it panics on error.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	registry.RLock()
	defer registry.RUnlock()
	f, ok := registry.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
