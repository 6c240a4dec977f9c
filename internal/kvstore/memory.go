package kvstore

import "sync"

// MemoryStore is an in-memory implementation of the Store interface.
// It uses a map for storage and provides thread-safe operations via RWMutex.
//
// Nothing is persisted; the store lives for the duration of the process.
// An optional capacity bounds the sum of key and value lengths in bytes,
// mirroring the per-origin quota of a browser key-value store.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	used     int64
	capacity int64
}

// NewMemoryStore creates an unbounded in-memory store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCapacity(0)
}

// NewMemoryStoreWithCapacity creates an in-memory store that refuses
// writes once capacityBytes would be exceeded. Zero or less means unbounded.
func NewMemoryStoreWithCapacity(capacityBytes int64) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]string),
		capacity: capacityBytes,
	}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data[key]
	return value, exists, nil
}

func (s *MemoryStore) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + entrySize(key, value)
	if old, exists := s.data[key]; exists {
		next -= entrySize(key, old)
	}
	if s.capacity > 0 && next > s.capacity {
		return &StoreError{
			Message:   "memory store capacity exceeded",
			Retryable: false,
			Cause:     ErrCauseQuotaExceeded,
			Key:       key,
		}
	}

	s.data[key] = value
	s.used = next
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.data[key]; exists {
		s.used -= entrySize(key, old)
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Used returns the bytes currently accounted against the capacity.
func (s *MemoryStore) Used() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.used
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
