package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"playrates/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GamesStore struct {
	pool *pgxpool.Pool
}

func NewGamesStore(pool *pgxpool.Pool) *GamesStore {
	return &GamesStore{pool: pool}
}

func (s *GamesStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	const q = `
		SELECT id, title, trending, release_date, platforms, listings
		FROM games
		ORDER BY id
	`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []domain.Game{}
	for rows.Next() {
		var (
			g         domain.Game
			platforms pgtype.FlatArray[string]
			listings  []byte
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.Trending, &g.ReleaseDate, &platforms, &listings); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Platforms = textArrayOrEmpty(platforms)
		if err := json.Unmarshal(listings, &g.Listings); err != nil {
			return nil, fmt.Errorf("decode listings for game %d: %w", g.ID, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

// ImportGames upserts the catalog, typically from the games.json seed file.
func (s *GamesStore) ImportGames(ctx context.Context, games []domain.Game) error {
	const q = `
		INSERT INTO games (id, title, trending, release_date, platforms, listings)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			trending = EXCLUDED.trending,
			release_date = EXCLUDED.release_date,
			platforms = EXCLUDED.platforms,
			listings = EXCLUDED.listings
	`
	for _, g := range games {
		listings, err := json.Marshal(g.Listings)
		if err != nil {
			return fmt.Errorf("encode listings for game %d: %w", g.ID, err)
		}
		platforms := g.Platforms
		if platforms == nil {
			platforms = []string{}
		}
		if _, err := s.pool.Exec(ctx, q, g.ID, g.Title, g.Trending, g.ReleaseDate, platforms, listings); err != nil {
			return fmt.Errorf("import game %d: %w", g.ID, err)
		}
	}
	return nil
}
