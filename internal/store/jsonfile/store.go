package jsonfile

import (
	"fmt"
	"os"

	"playrates/internal/domain"
)

const (
	UsersFile    = "users.json"
	GamesFile    = "games.json"
	GameLogsFile = "gamelogs.json"
	ReviewsFile  = "reviews.json"
)

type Store struct {
	Users    *UsersStore
	Games    *GamesStore
	GameLogs *GameLogsStore
	Reviews  *ReviewsStore
}

// Open prepares the collection files under dir, creating empty ones on first
// run.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	users := NewCollection[[]userRecord](dir, UsersFile)
	games := NewCollection[[]domain.Game](dir, GamesFile)
	logs := NewCollection[map[int][]domain.GameLog](dir, GameLogsFile)
	reviews := NewCollection[map[int][]domain.Review](dir, ReviewsFile)

	if err := users.Ensure([]userRecord{}); err != nil {
		return nil, err
	}
	if err := games.Ensure([]domain.Game{}); err != nil {
		return nil, err
	}
	if err := logs.Ensure(map[int][]domain.GameLog{}); err != nil {
		return nil, err
	}
	if err := reviews.Ensure(map[int][]domain.Review{}); err != nil {
		return nil, err
	}

	return &Store{
		Users:    &UsersStore{c: users},
		Games:    &GamesStore{c: games},
		GameLogs: &GameLogsStore{c: logs},
		Reviews:  &ReviewsStore{c: reviews},
	}, nil
}
