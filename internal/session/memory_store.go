package session

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/proposals-console/internal/goroutine"
)

// MemoryStore хранит сессии в памяти процесса с TTL.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore создаёт хранилище и запускает фоновую очистку до отмены ctx.
func NewMemoryStore(ctx context.Context) *MemoryStore {
	ms := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
	goroutine.SafeGoWithContext(ctx, "session cleanup", func(ctx context.Context) {
		ms.cleanup(ctx, 5*time.Minute)
	})
	return ms
}

// Get возвращает копию сессии.
func (ms *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, ok := ms.sessions[id]
	if !ok || ms.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	s := entry.session.clone()
	return &s, nil
}

// Save сохраняет копию сессии с новым сроком жизни.
func (ms *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[s.ID] = &memoryEntry{
		session:   s.clone(),
		expiresAt: ms.now().Add(ttl),
	}
	return nil
}

// Delete удаляет сессию.
func (ms *MemoryStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.sessions, id)
	return nil
}

// Len количество сессий, включая ещё не вычищенные просроченные.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

// cleanup periodically removes expired entries.
func (ms *MemoryStore) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.evictExpired()
		}
	}
}

func (ms *MemoryStore) evictExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for id, entry := range ms.sessions {
		if now.After(entry.expiresAt) {
			delete(ms.sessions, id)
		}
	}
}
