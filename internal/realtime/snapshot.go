package realtime

import (
	"sync"
	"sync/atomic"
)

// Snapshot хранит последнее значение с номером версии.
// Загрузка начинается с Begin; Commit с номером не новее сохраненного отбрасывается,
// так что медленная устаревшая выборка не перезапишет более свежую.
type Snapshot[T any] struct {
	next   atomic.Uint64
	mu     sync.RWMutex
	seq    uint64
	value  T
	loaded bool
}

// Begin выдает номер для новой загрузки
func (s *Snapshot[T]) Begin() uint64 {
	return s.next.Add(1)
}

// Commit сохраняет значение, если seq новее текущего
func (s *Snapshot[T]) Commit(seq uint64, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && seq <= s.seq {
		return false
	}
	s.seq = seq
	s.value = value
	s.loaded = true
	return true
}

// Load возвращает текущее значение, его номер и признак наличия
func (s *Snapshot[T]) Load() (T, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.seq, s.loaded
}
