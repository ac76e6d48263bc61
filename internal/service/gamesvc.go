package service

import (
	"context"
	"fmt"

	"playrates/internal/domain"
)

type GamesStore interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
}

// GamesService serves the game catalog from memory. The catalog is read once
// when the service is created and never changes afterwards.
type GamesService struct {
	games []domain.Game
	byID  map[int]int
}

func NewGamesService(ctx context.Context, store GamesStore) (*GamesService, error) {
	games, err := store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load game catalog: %w", err)
	}
	return NewGamesCatalog(games), nil
}

func NewGamesCatalog(games []domain.Game) *GamesService {
	s := &GamesService{
		games: make([]domain.Game, len(games)),
		byID:  make(map[int]int, len(games)),
	}
	copy(s.games, games)
	for i, g := range s.games {
		if _, dup := s.byID[g.ID]; !dup {
			s.byID[g.ID] = i
		}
	}
	return s
}

func (s *GamesService) List() []domain.Game {
	return s.games
}

func (s *GamesService) Get(id int) (domain.Game, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Game{}, domain.ErrNotFound
	}
	return s.games[i], nil
}

func (s *GamesService) Len() int { return len(s.games) }
