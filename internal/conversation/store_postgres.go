package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// postgresStore snapshots sessions as JSONB so a restart does not drop
// conversations that are mid-flight. Reads go through an LRU cache.
type postgresStore struct {
	db    *sql.DB
	cache *lru.Cache[uuid.UUID, *Session]
}

func NewPostgresSessionStore(db *sql.DB, cacheSize int) (SessionStore, error) {
	cache, err := lru.New[uuid.UUID, *Session](cacheSize)
	if err != nil {
		return nil, err
	}
	return &postgresStore{db: db, cache: cache}, nil
}

func (p *postgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	if s, ok := p.cache.Get(id); ok {
		return s.clone(), nil
	}

	var state []byte
	err := p.db.QueryRowContext(ctx, `SELECT state FROM conversation_sessions WHERE conversation_id = $1`, id).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(state, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	p.cache.Add(id, s.clone())
	return &s, nil
}

func (p *postgresStore) Put(ctx context.Context, s *Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversation_sessions (conversation_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (conversation_id) DO UPDATE SET
			state = $2,
			updated_at = $3
	`
	if _, err := p.db.ExecContext(ctx, query, s.ConversationID, state, s.UpdatedAt); err != nil {
		p.cache.Remove(s.ConversationID)
		return err
	}
	p.cache.Add(s.ConversationID, s.clone())
	return nil
}

func (p *postgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	p.cache.Remove(id)
	_, err := p.db.ExecContext(ctx, `DELETE FROM conversation_sessions WHERE conversation_id = $1`, id)
	return err
}
