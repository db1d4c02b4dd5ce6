package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore keeps progress records in process memory. Used when no Redis
// is configured and in tests. Records are stored serialized so the parse
// path behaves exactly like the Redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64][]byte
	log     *zap.Logger
}

func NewMemoryStore(log *zap.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[int64][]byte),
		log:     log,
	}
}

func (s *MemoryStore) Load(_ context.Context, userID int64) (Progress, error) {
	s.mu.RLock()
	data, ok := s.records[userID]
	s.mu.RUnlock()

	if !ok {
		return Default(), ErrNotFound
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		s.log.Warn("discarding unreadable checkout progress",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return Default(), nil
	}
	if !p.Step.Valid() {
		return Default(), nil
	}
	return p, nil
}

func (s *MemoryStore) Save(_ context.Context, userID int64, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress failed: %w", err)
	}
	s.mu.Lock()
	s.records[userID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.records, userID)
	s.mu.Unlock()
	return nil
}
