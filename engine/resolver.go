package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/use-agent/trawler/models"
)

// Resolver maps a validated Method to a concrete Engine. Driven methods
// receive the session's borrowed driver.
type Resolver interface {
	Resolve(m Method, driver Driver) (Engine, error)
}

// BackendsConfig configures the production resolver.
type BackendsConfig struct {
	// UserAgents rotated by the direct engines. Empty uses DefaultUserAgents.
	UserAgents []string

	// EscalationDelays stage the http → rod → rod-stealth race of MethodAuto.
	EscalationDelays []time.Duration

	// MemoryTTL is how long a race winner is remembered per domain.
	MemoryTTL time.Duration
}

// Backends is the production Resolver. Direct engines are built once and
// shared; driven engines are bound to the driver passed to Resolve.
type Backends struct {
	cfg    BackendsConfig
	http   *HTTPEngine
	colly  *CollyEngine
	memory *DomainMemory
}

// NewBackends builds the direct engines and the domain memory used by
// MethodAuto. Call Close to stop the memory's prune goroutine.
func NewBackends(cfg BackendsConfig) *Backends {
	if len(cfg.EscalationDelays) == 0 {
		cfg.EscalationDelays = []time.Duration{0, 2 * time.Second, 5 * time.Second}
	}
	if cfg.MemoryTTL <= 0 {
		cfg.MemoryTTL = 24 * time.Hour
	}
	agents := NewUserAgents(cfg.UserAgents)
	return &Backends{
		cfg:    cfg,
		http:   NewHTTPEngine(agents),
		colly:  NewCollyEngine(agents),
		memory: NewDomainMemory(cfg.MemoryTTL, time.Hour),
	}
}

var (
	defaultBackends     *Backends
	defaultBackendsOnce sync.Once
)

// DefaultBackends returns a process-wide Backends with default settings.
func DefaultBackends() *Backends {
	defaultBackendsOnce.Do(func() {
		defaultBackends = NewBackends(BackendsConfig{})
	})
	return defaultBackends
}

func (b *Backends) Resolve(m Method, driver Driver) (Engine, error) {
	if m.NeedsDriver() && driver == nil {
		return nil, models.NewTrawlError(
			models.ErrCodeBrowserCrash,
			fmt.Sprintf("scrape method %q needs a running browser driver", m),
			nil,
		)
	}

	switch m {
	case MethodHTTP:
		return b.http, nil
	case MethodColly:
		return b.colly, nil
	case MethodRod:
		return NewRodEngine(driver, false), nil
	case MethodRodStealth:
		return NewRodEngine(driver, true), nil
	case MethodAuto:
		engines := []Engine{b.http, NewRodEngine(driver, false), NewRodEngine(driver, true)}
		return NewDispatcher(engines, b.cfg.EscalationDelays, b.memory), nil
	}

	// Unreachable for values produced by ParseMethod.
	_, err := ParseMethod(string(m))
	return nil, err
}

// Close stops background work owned by the resolver.
func (b *Backends) Close() {
	b.memory.Stop()
}
