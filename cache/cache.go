package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/use-agent/trawler/models"
)

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = time.Hour
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.TrawlResponse
	createdAt time.Time
}

// Cache is a simple in-memory cache for trawl responses.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older than
// 1 hour; Stop ends it.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: max(maxEntries, 1),
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go c.cleanupLoop()
	return c
}

// keyFields are the request fields that change the aggregate. Timeout,
// MaxAge and webhook settings are left out.
type keyFields struct {
	Keyword  string   `json:"k"`
	Browser  string   `json:"b"`
	Method   string   `json:"m"`
	BaseURL  string   `json:"u"`
	MaxPages int      `json:"p"`
	Generate bool     `json:"g"`
	Prefixes []string `json:"pre"`
	Suffixes []string `json:"suf"`
}

// Key derives a cache key from every request field that changes the
// aggregate. Empty and missing template lists hash the same.
func Key(req *models.TrawlRequest) string {
	k := keyFields{
		Keyword:  req.Keyword,
		Browser:  req.Browser,
		Method:   req.Method,
		BaseURL:  req.BaseURL,
		MaxPages: req.MaxPages,
		Generate: req.GenerateKeywords,
	}
	if len(req.Prefixes) > 0 {
		k.Prefixes = req.Prefixes
	}
	if len(req.Suffixes) > 0 {
		k.Suffixes = req.Suffixes
	}
	// Strings, ints and bools always marshal.
	data, _ := json.Marshal(k)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached response if it exists and is younger than maxAge.
// maxAge is in milliseconds. If maxAge <= 0, no cache lookup is performed.
// Returns the response and whether it was a cache hit.
func (c *Cache) Get(key string, maxAgeMs int) (*models.TrawlResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if c.now().Sub(e.createdAt) > maxAge {
		return nil, false
	}

	return e.response, true
}

// Set stores a response in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, resp *models.TrawlResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Map iteration order is random in Go.
	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		response:  resp,
		createdAt: c.now(),
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache) evictExpired() {
	cutoff := c.now().Add(-entryTTL)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
}
