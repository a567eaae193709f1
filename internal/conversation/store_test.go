package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-triage/internal/symptom"
)

func TestMemoryStore(t *testing.T) {
	store, err := NewMemoryStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	a := newSession(uuid.New(), uuid.New(), "A")
	require.NoError(t, store.Put(ctx, a))
	got, err := store.Get(ctx, a.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.NotSame(t, a, got)

	got.Phase = PhaseCompleted
	got.Answers[symptom.Key(symptom.Fever, "temperature")] = symptom.NumberAnswer(101)
	again, err := store.Get(ctx, a.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, PhaseDisclaimer, again.Phase)
	assert.Empty(t, again.Answers)

	require.NoError(t, store.Delete(ctx, a.ConversationID))
	_, err = store.Get(ctx, a.ConversationID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	store, err := NewMemoryStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		s := newSession(uuid.New(), uuid.New(), "")
		ids = append(ids, s.ConversationID)
		require.NoError(t, store.Put(ctx, s))
	}

	_, err = store.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, ids[2])
	assert.NoError(t, err)
}

func TestNewMemoryStoreRejectsZeroSize(t *testing.T) {
	_, err := NewMemoryStore(0)
	assert.Error(t, err)
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	id := uuid.New()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(id)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, k.locks)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := k.Lock(uuid.New())
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}
