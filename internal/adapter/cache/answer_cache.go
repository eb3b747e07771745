package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"github.com/Roshanchokhani/rag-document-qa/internal/domain"
)

// AnswerCache memoizes retrieval results per (question, top-k) pair.
// Entries expire after a TTL, evict LRU beyond a size cap, and are
// all invalidated when the corpus generation changes (any successful
// ingest bumps the generation).
type AnswerCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = least recently used
	maxSize    int
	ttl        time.Duration
	generation uint64
}

type cacheEntry struct {
	key        string
	results    []domain.RetrievalResult
	storedAt   time.Time
	generation uint64
}

func NewAnswerCache(maxSize int, ttl time.Duration) *AnswerCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(question string, topK int) string {
	h := sha256.New()
	h.Write([]byte(question))
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(topK))
	h.Write(k[:])
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (c *AnswerCache) Get(question string, topK int) ([]domain.RetrievalResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question, topK)
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := el.Value.(*cacheEntry)
	if entry.generation != c.generation || time.Since(entry.storedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}

	c.order.MoveToBack(el)
	return entry.results, true
}

func (c *AnswerCache) Put(question string, topK int, results []domain.RetrievalResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question, topK)
	if el, ok := c.entries[key]; ok {
		el.Value = &cacheEntry{key: key, results: results, storedAt: time.Now(), generation: c.generation}
		c.order.MoveToBack(el)
		return
	}

	if len(c.entries) >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}

	c.entries[key] = c.order.PushBack(&cacheEntry{
		key:        key,
		results:    results,
		storedAt:   time.Now(),
		generation: c.generation,
	})
}

// Invalidate drops every cached entry. Called after ingest so stale
// rankings never survive a corpus change.
func (c *AnswerCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.generation++
}

func (c *AnswerCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
