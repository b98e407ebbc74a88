package browser

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/use-agent/trawler/models"
)

// Factory builds a Browser for one keyword.
type Factory func(Options) (Browser, error)

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Factory{}
)

// Register makes a site kind available to New. Registering the same kind
// twice replaces the earlier factory.
func Register(kind Kind, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = f
}

// Lookup returns the factory registered for kind.
func Lookup(kind Kind) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	return f, ok
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Validate reports whether kind is registered. The error names every
// registered kind.
func Validate(kind Kind) error {
	if _, ok := Lookup(kind); ok {
		return nil
	}
	names := make([]string, 0)
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return models.NewTrawlError(
		models.ErrCodeNotImplemented,
		fmt.Sprintf("Only [%s] search is implemented at this moment, got %q", strings.Join(names, ","), kind),
		models.ErrNotImplemented,
	)
}

// New builds a session for kind.
func New(kind Kind, opts Options) (Browser, error) {
	if err := Validate(kind); err != nil {
		return nil, err
	}
	f, _ := Lookup(kind)
	return f(opts)
}

// register adds a built-in site backed by the shared session.
func register(site Site) {
	Register(site.Kind, func(opts Options) (Browser, error) {
		return newSession(site, opts)
	})
}
