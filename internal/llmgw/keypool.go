package llmgw

import (
	"sync"

	"llmgateway/internal/apierrors"
)

// KeyPool hands out configured API keys round-robin across concurrent
// instance constructions.
type KeyPool struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewKeyPool builds a pool from the configured key list. An empty pool is
// permitted at construction time; Next reports the configuration error only
// when a key is actually requested, matching the original's lazy check.
func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{keys: keys}
}

// Next returns the next key in round-robin order, or a CodeInternal
// configuration error if the pool is empty.
func (p *KeyPool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", apierrors.New(apierrors.CodeInternal, "no Gemini API keys configured")
	}
	key := p.keys[p.next%len(p.keys)]
	p.next++
	return key, nil
}
