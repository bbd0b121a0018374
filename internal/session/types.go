// Package session implements checkpointed conversation state: a metadata
// table of session records plus a pluggable message-history backend, with
// TTL eviction and fresh-vs-resume create semantics.
package session

import (
	"context"
	"time"

	"llmgateway/internal/llmgw"
)

// Record is one session's metadata: identity, model binding, and
// per-game sidecar state. History itself lives in the CheckpointStore,
// keyed by the same id as the thread id.
type Record struct {
	ID             string
	Model          string
	SystemPrompt   string
	DomainData     map[string]any
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (r Record) expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(r.LastAccessedAt) > ttl
}

func (r Record) touch(now time.Time) Record {
	r.LastAccessedAt = now
	return r
}

// CheckpointStore maps a thread id to an ordered message list with
// at-least-once append durability. The in-memory and Redis backends both
// implement this.
type CheckpointStore interface {
	AppendMessages(ctx context.Context, threadID string, messages []llmgw.Message) error
	GetMessages(ctx context.Context, threadID string) ([]llmgw.Message, error)
	DeleteThread(ctx context.Context, threadID string) error
}
