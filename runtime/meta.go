package runtime

import (
	"sync"

	"chatstream/domain"
)

// MetaState holds the last metadata snapshot observed from the backend.
// Writes go to the backend only; the snapshot is replaced exclusively by
// change notifications so it cannot diverge after a concurrent remote
// write.
type MetaState struct {
	mu   sync.RWMutex
	meta domain.Meta
}

func NewMetaState() *MetaState {
	return &MetaState{}
}

// Apply replaces the snapshot and reports whether anything changed.
func (s *MetaState) Apply(meta domain.Meta) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.meta.Equal(meta) {
		return false
	}
	s.meta = meta
	return true
}

func (s *MetaState) Snapshot() domain.Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

func (s *MetaState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = domain.Meta{}
}
