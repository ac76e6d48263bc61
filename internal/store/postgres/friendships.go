package postgres

import (
	"context"
	"errors"
	"fmt"

	"playrates/internal/domain"

	"github.com/jackc/pgx/v5"
)

func loadEdges(ctx context.Context, q querier, userID int) ([]domain.FriendEdge, error) {
	rows, err := q.Query(ctx, `SELECT peer_id, status FROM friend_edges WHERE user_id = $1 ORDER BY peer_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}
	defer rows.Close()

	out := []domain.FriendEdge{}
	for rows.Next() {
		var e domain.FriendEdge
		if err := rows.Scan(&e.ID, &e.Status); err != nil {
			return nil, fmt.Errorf("scan friend edge: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}
	return out, nil
}

func loadAllEdges(ctx context.Context, q querier) (map[int][]domain.FriendEdge, error) {
	rows, err := q.Query(ctx, `SELECT user_id, peer_id, status FROM friend_edges ORDER BY user_id, peer_id`)
	if err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}
	defer rows.Close()

	out := map[int][]domain.FriendEdge{}
	for rows.Next() {
		var (
			userID int
			e      domain.FriendEdge
		)
		if err := rows.Scan(&userID, &e.ID, &e.Status); err != nil {
			return nil, fmt.Errorf("scan friend edge: %w", err)
		}
		out[userID] = append(out[userID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}
	return out, nil
}

// UpdateFriendPair locks both user rows, applies fn to their current statuses
// and writes both edges in one transaction.
func (s *UsersStore) UpdateFriendPair(ctx context.Context, a, b int, fn func(domain.FriendPair) (domain.FriendPair, error)) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var locked int
		err := tx.QueryRow(ctx, `
			SELECT count(*) FROM (
				SELECT id FROM users WHERE id IN ($1, $2) ORDER BY id FOR UPDATE
			) AS l
		`, a, b).Scan(&locked)
		if err != nil {
			return fmt.Errorf("lock users: %w", err)
		}
		want := 2
		if a == b {
			want = 1
		}
		if locked != want {
			return domain.ErrNotFound
		}

		cur := domain.FriendPair{}
		if cur.A, err = edgeStatus(ctx, tx, a, b); err != nil {
			return err
		}
		if cur.B, err = edgeStatus(ctx, tx, b, a); err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}

		if err := setEdge(ctx, tx, a, b, next.A); err != nil {
			return err
		}
		return setEdge(ctx, tx, b, a, next.B)
	})
}

func edgeStatus(ctx context.Context, tx pgx.Tx, userID, peerID int) (domain.FriendStatus, error) {
	var st domain.FriendStatus
	err := tx.QueryRow(ctx, `SELECT status FROM friend_edges WHERE user_id = $1 AND peer_id = $2`, userID, peerID).Scan(&st)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FriendStatusNone, nil
		}
		return "", fmt.Errorf("read friend edge: %w", err)
	}
	return st, nil
}

func setEdge(ctx context.Context, tx pgx.Tx, userID, peerID int, status domain.FriendStatus) error {
	if status == domain.FriendStatusNone {
		if _, err := tx.Exec(ctx, `DELETE FROM friend_edges WHERE user_id = $1 AND peer_id = $2`, userID, peerID); err != nil {
			return fmt.Errorf("delete friend edge: %w", err)
		}
		return nil
	}

	const q = `
		INSERT INTO friend_edges (user_id, peer_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, peer_id) DO UPDATE SET status = EXCLUDED.status
	`
	if _, err := tx.Exec(ctx, q, userID, peerID, string(status)); err != nil {
		return fmt.Errorf("write friend edge: %w", err)
	}
	return nil
}
