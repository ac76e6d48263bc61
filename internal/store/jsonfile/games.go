package jsonfile

import (
	"context"

	"playrates/internal/domain"
)

type GamesStore struct {
	c *Collection[[]domain.Game]
}

func (s *GamesStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if games == nil {
		games = []domain.Game{}
	}
	return games, nil
}
