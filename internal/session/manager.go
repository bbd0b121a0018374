package session

import (
	"context"
	"sync"
	"time"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/llmgw"
)

// Manager is the session metadata table plus its backing CheckpointStore.
// Prune+check+insert sequences run under one mutex, matching the
// single-threaded-event-loop invariant the original relies on.
type Manager struct {
	mu          sync.Mutex
	records     map[string]Record
	store       CheckpointStore
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
}

// NewManager builds a Manager. maxSessions <= 0 means unbounded.
func NewManager(store CheckpointStore, maxSessions int, ttlMinutes int) *Manager {
	return &Manager{
		records:     make(map[string]Record),
		store:       store,
		maxSessions: maxSessions,
		ttl:         time.Duration(ttlMinutes) * time.Minute,
		now:         time.Now,
	}
}

// pruneExpired removes every expired record from both the metadata table
// and the backing store, returning the set of ids it removed.
func (m *Manager) pruneExpired(ctx context.Context) map[string]bool {
	now := m.now()
	expired := make(map[string]bool)
	for id, rec := range m.records {
		if rec.expired(m.ttl, now) {
			expired[id] = true
			delete(m.records, id)
			_ = m.store.DeleteThread(ctx, id)
		}
	}
	return expired
}

// CreateSession resumes an existing non-expired record (refreshing its
// last-accessed time) or installs a new one after a capacity check.
// History is left untouched either way.
func (m *Manager) CreateSession(ctx context.Context, id, model, systemPrompt string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneExpired(ctx)

	if rec, ok := m.records[id]; ok {
		rec = rec.touch(m.now())
		m.records[id] = rec
		return rec, nil
	}

	if m.maxSessions > 0 && len(m.records) >= m.maxSessions {
		return Record{}, apierrors.New(apierrors.CodeSessionLimitExceeded, "session table at capacity")
	}

	now := m.now()
	rec := Record{ID: id, Model: model, SystemPrompt: systemPrompt, CreatedAt: now, LastAccessedAt: now}
	m.records[id] = rec
	return rec, nil
}

// CreateFreshSession unconditionally clears history and metadata for id,
// then installs a new record after the same capacity check.
func (m *Manager) CreateFreshSession(ctx context.Context, id, model, systemPrompt string, domainData map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, id)
	_ = m.store.DeleteThread(ctx, id)

	m.pruneExpired(ctx)

	if m.maxSessions > 0 && len(m.records) >= m.maxSessions {
		return Record{}, apierrors.New(apierrors.CodeSessionLimitExceeded, "session table at capacity")
	}

	now := m.now()
	rec := Record{ID: id, Model: model, SystemPrompt: systemPrompt, DomainData: domainData, CreatedAt: now, LastAccessedAt: now}
	m.records[id] = rec
	return rec, nil
}

// GetSession prunes expired sessions first. If id was among those just
// expired, it raises a session-expired error instead of returning nil, so
// the caller can distinguish "never existed" from "timed out".
func (m *Manager) GetSession(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := m.pruneExpired(ctx)
	if expired[id] {
		return nil, apierrors.New(apierrors.CodeSessionExpired, "session expired")
	}

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	rec = rec.touch(m.now())
	m.records[id] = rec
	return &rec, nil
}

// EndSession removes the metadata record if present and clears history
// regardless, reporting whether a metadata record existed.
func (m *Manager) EndSession(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	_, existed := m.records[id]
	delete(m.records, id)
	m.mu.Unlock()

	if err := m.store.DeleteThread(ctx, id); err != nil {
		return existed, err
	}
	return existed, nil
}

// ClearHistory removes history for id via the backing store's delete
// operation. The in-memory and Redis stores both support DeleteThread
// directly, so there is no need for the original's overwrite-with-empty
// fallback for backends that lack it.
func (m *Manager) ClearHistory(ctx context.Context, id string) error {
	return m.store.DeleteThread(ctx, id)
}

// AddMessages appends messages to id's history.
func (m *Manager) AddMessages(ctx context.Context, id string, messages []llmgw.Message) error {
	return m.store.AppendMessages(ctx, id, messages)
}

// AddMessage is a convenience single-message append.
func (m *Manager) AddMessage(ctx context.Context, id, role, content string) error {
	return m.AddMessages(ctx, id, []llmgw.Message{{Role: role, Content: content}})
}

// GetHistory returns id's full message list in append order.
func (m *Manager) GetHistory(ctx context.Context, id string) ([]llmgw.Message, error) {
	return m.store.GetMessages(ctx, id)
}

// GetHistoryAsDicts is the role/content projection the LLM client consumes.
func (m *Manager) GetHistoryAsDicts(ctx context.Context, id string) ([]map[string]string, error) {
	history, err := m.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(history))
	for i, msg := range history {
		out[i] = map[string]string{"role": msg.Role, "content": msg.Content}
	}
	return out, nil
}

// UpdateDomainData sets a key in id's domain-data sidecar map.
func (m *Manager) UpdateDomainData(ctx context.Context, id, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return apierrors.New(apierrors.CodeSessionNotFound, "session not found")
	}
	if rec.DomainData == nil {
		rec.DomainData = make(map[string]any)
	}
	rec.DomainData[key] = value
	m.records[id] = rec
	return nil
}

// GetDomainData reads a key from id's domain-data sidecar map.
func (m *Manager) GetDomainData(ctx context.Context, id, key string) (any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, false, apierrors.New(apierrors.CodeSessionNotFound, "session not found")
	}
	val, ok := rec.DomainData[key]
	return val, ok, nil
}
