package memory

import (
	"context"
	"sync"

	appoutbox "stayhub/internal/app/outbox"
)

const (
	statusPending = "PENDING"
	statusSent    = "SENT"
	statusFailed  = "FAILED"
)

type outboxEntry struct {
	record  appoutbox.EventRecord
	status  string
	claimed bool
}

// OutboxStore keeps event records in insertion order. It serves both the
// application side (Add) and the relay worker (Claim, MarkSent, MarkFailed).
type OutboxStore struct {
	mu      sync.Mutex
	entries []*outboxEntry
	index   map[string]*outboxEntry
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{index: make(map[string]*outboxEntry)}
}

func (s *OutboxStore) Add(_ context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &outboxEntry{record: record, status: statusPending}
	s.entries = append(s.entries, entry)
	s.index[record.ID] = entry
	return nil
}

// Claim returns up to limit unsent records and marks them in flight. Failed
// records become claimable again so the worker retries them.
func (s *OutboxStore) Claim(_ context.Context, limit int) ([]appoutbox.EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]appoutbox.EventRecord, 0, limit)
	for _, entry := range s.entries {
		if len(out) >= limit {
			break
		}
		if entry.claimed || entry.status == statusSent {
			continue
		}
		entry.claimed = true
		out = append(out, entry.record)
	}
	return out, nil
}

func (s *OutboxStore) MarkSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.index[id]; ok {
		entry.status = statusSent
		entry.claimed = false
	}
	return nil
}

func (s *OutboxStore) MarkFailed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.index[id]; ok {
		entry.status = statusFailed
		entry.claimed = false
	}
	return nil
}

// Pending reports how many records still await relay.
func (s *OutboxStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entry := range s.entries {
		if entry.status != statusSent {
			n++
		}
	}
	return n
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
