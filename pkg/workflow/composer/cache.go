package composer

import "sync"

// answerCacheCapacity bounds the exact-match answer cache.
const answerCacheCapacity = 100

type cachedAnswer struct {
	text    string
	sources []string
}

// answerCache is a capacity-bounded exact-match cache. Eviction removes an
// arbitrary entry once over capacity (simple bound enforcement, not LRU).
type answerCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]cachedAnswer
}

func newAnswerCache(capacity int) *answerCache {
	return &answerCache{
		capacity: capacity,
		entries:  make(map[string]cachedAnswer, capacity),
	}
}

func (c *answerCache) get(key string) (cachedAnswer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[key]
	return a, ok
}

func (c *answerCache) put(key string, answer cachedAnswer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		// Map iteration order is unspecified; dropping the first visited
		// key is the documented arbitrary eviction.
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = answer
}

func (c *answerCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
