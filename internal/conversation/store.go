package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrSessionNotFound = errors.New("conversation session not found")

// SessionStore keeps in-flight conversation state between turns. Get and Put
// copy the session, so changes made to a fetched session are only visible
// after a successful Put.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type memoryStore struct {
	cache *lru.Cache[uuid.UUID, *Session]
}

// NewMemoryStore keeps up to size sessions in process memory, evicting the
// least recently used.
func NewMemoryStore(size int) (SessionStore, error) {
	cache, err := lru.New[uuid.UUID, *Session](size)
	if err != nil {
		return nil, err
	}
	return &memoryStore{cache: cache}, nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

func (m *memoryStore) Put(_ context.Context, s *Session) error {
	m.cache.Add(s.ConversationID, s.clone())
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.cache.Remove(id)
	return nil
}

// keyedMutex serializes work per conversation id. Entries are reference
// counted and dropped once nobody holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uuid.UUID]*refLock)}
}

// Lock blocks until id is free and returns the matching unlock func.
func (k *keyedMutex) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &refLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
