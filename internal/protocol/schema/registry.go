package schema

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Schema{}
)

// Register adds s under s.Name. Registering a name twice fails.
func Register(s Schema) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[s.Name]; ok {
		return fmt.Errorf("schema: %q already registered", s.Name)
	}
	registry[s.Name] = s
	return nil
}

func MustRegister(s Schema) {
	if err := Register(s); err != nil {
		panic(err)
	}
}

func Get(name string) (Schema, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// Names returns the registered schema names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
