package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Cart snapshots are the durable write-behind copy of the Redis
// session store. They exist so a cart survives a Redis flush or
// restart; the payload is the same JSON array the Redis key holds.

// SaveCartSnapshot upserts the serialized cart for a session
func (s *Store) SaveCartSnapshot(ctx context.Context, sessionID string, payload []byte) error {
	query := `
		INSERT INTO cart_snapshots (session_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, sessionID, payload); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// GetCartSnapshot retrieves the serialized cart for a session. A
// missing row returns (nil, nil).
func (s *Store) GetCartSnapshot(ctx context.Context, sessionID string) ([]byte, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM cart_snapshots WHERE session_id = $1", sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// DeleteCartSnapshot removes the durable cart copy for a session
func (s *Store) DeleteCartSnapshot(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_snapshots WHERE session_id = $1", sessionID)
	return err
}
