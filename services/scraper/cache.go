package scraper

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"scout/utils/types"
)

// Fingerprint derives the deterministic cache key for a scrape: the
// target verbatim, then a hash of the ordered, normalized descriptor
// list. The target stays in the clear so Clear can prefix-match it.
func Fingerprint(target string, descriptors []types.FieldDescriptor) string {
	var b strings.Builder
	for _, d := range descriptors {
		b.WriteString(d.Name)
		b.WriteByte(0x1f)
		b.WriteString(d.Query)
		b.WriteByte(0x1f)
		b.WriteString(string(d.Kind))
		b.WriteByte(0x1f)
		b.WriteString(strconv.FormatBool(d.Multiple))
		b.WriteByte(0x1f)
		// Attribute only participates when the kind consumes it.
		if d.Kind == types.KindAttribute {
			b.WriteString(d.Attribute)
		}
		b.WriteByte(0x1e)
	}
	return fmt.Sprintf("%s|%x", target, md5.Sum([]byte(b.String())))
}

type cacheEntry struct {
	bundle    types.ResultBundle
	expiresAt time.Time
}

// ResultCache is the time-boxed bundle store shared by all scrape
// requests. Expiry is lazy on Get plus a periodic sweep.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	hits    uint64
	misses  uint64
	stop    chan struct{}
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 1800 * time.Second
	}
	c := &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *ResultCache) Get(key string) (types.ResultBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return types.ResultBundle{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return types.ResultBundle{}, false
	}
	c.hits++
	return entry.bundle, true
}

func (c *ResultCache) Set(key string, bundle types.ResultBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{bundle: bundle, expiresAt: time.Now().Add(c.ttl)}
}

// Clear removes entries. Empty target wipes everything; otherwise only
// entries whose target component starts with the given string go,
// so partial URLs clear whole site sections.
func (c *ResultCache) Clear(target string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target == "" {
		removed := len(c.entries)
		c.entries = make(map[string]cacheEntry)
		return removed
	}
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, target) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *ResultCache) Stats() types.CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CacheStatus{Keys: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// Close stops the background sweeper.
func (c *ResultCache) Close() {
	close(c.stop)
}

func (c *ResultCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
