package llmgw

import (
	"container/list"
	"sync"

	genai "google.golang.org/genai"
)

// instanceKey identifies one cached client configuration. Distinct tasks
// for the same model yield distinct instances because thinking
// configuration is baked in at construction time.
type instanceKey struct {
	model string
	task  string
}

// instance is a constructed genai client plus the generation config baked
// in for its (model, task) pair.
type instance struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// instanceCache is a bounded LRU cache of (model, task) -> instance.
// Underlying client construction does real network/credential setup, so
// repeated calls for the same (model, task) reuse one instance.
type instanceCache struct {
	mu      sync.Mutex
	maxSize int
	ll      *list.List
	items   map[instanceKey]*list.Element
}

type cacheElem struct {
	key instanceKey
	val *instance
}

func newInstanceCache(maxSize int) *instanceCache {
	if maxSize <= 0 {
		maxSize = 32
	}
	return &instanceCache{
		maxSize: maxSize,
		ll:      list.New(),
		items:   make(map[instanceKey]*list.Element),
	}
}

func (c *instanceCache) get(key instanceKey) (*instance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheElem).val, true
}

// getOrCreate returns the cached instance for key, constructing it with
// create under the cache lock if absent. create runs at most once per key.
func (c *instanceCache) getOrCreate(key instanceKey, create func() (*instance, error)) (*instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*cacheElem).val, nil
	}

	inst, err := create()
	if err != nil {
		return nil, err
	}

	el := c.ll.PushFront(&cacheElem{key: key, val: inst})
	c.items[key] = el
	if c.ll.Len() > c.maxSize {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheElem).key)
		}
	}
	return inst, nil
}

func (c *instanceCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
