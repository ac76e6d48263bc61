package postgres

import (
	"context"
	"fmt"

	"playrates/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewsStore struct {
	pool *pgxpool.Pool
}

func NewReviewsStore(pool *pgxpool.Pool) *ReviewsStore {
	return &ReviewsStore{pool: pool}
}

func (s *ReviewsStore) ListAll(ctx context.Context) (map[int][]domain.Review, error) {
	const q = `
		SELECT user_id, game_id, text, creation_date, public
		FROM reviews
		ORDER BY user_id, created_at, game_id
	`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := map[int][]domain.Review{}
	for rows.Next() {
		var (
			userID int
			r      domain.Review
		)
		if err := rows.Scan(&userID, &r.GameID, &r.Text, &r.CreationDate, &r.Public); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out[userID] = append(out[userID], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func (s *ReviewsStore) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	const q = `
		SELECT game_id, text, creation_date, public
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at, game_id
	`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.GameID, &r.Text, &r.CreationDate, &r.Public); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func (s *ReviewsStore) CreateReview(ctx context.Context, userID int, r domain.Review) error {
	const q = `
		INSERT INTO reviews (user_id, game_id, text, creation_date, public)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.pool.Exec(ctx, q, userID, r.GameID, r.Text, r.CreationDate, r.Public); err != nil {
		if name, ok := uniqueViolation(err); ok && name == "reviews_user_game_uq" {
			return domain.ErrReviewExists
		}
		if foreignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}
