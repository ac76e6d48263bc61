package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Migrate creates the tables when they do not exist yet. It is safe to run on
// every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type Store struct {
	Users    *UsersStore
	Games    *GamesStore
	GameLogs *GameLogsStore
	Reviews  *ReviewsStore
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:    NewUsersStore(pool),
		Games:    NewGamesStore(pool),
		GameLogs: NewGameLogsStore(pool),
		Reviews:  NewReviewsStore(pool),
	}
}
