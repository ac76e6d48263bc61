package jsonfile

import (
	"context"

	"playrates/internal/domain"
)

// GameLogsStore keeps every user's logs in one document keyed by user id.
type GameLogsStore struct {
	c *Collection[map[int][]domain.GameLog]
}

func (s *GameLogsStore) ListAll(ctx context.Context) (map[int][]domain.GameLog, error) {
	doc, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[int][]domain.GameLog{}
	}
	return doc, nil
}

func (s *GameLogsStore) ListForUser(ctx context.Context, userID int) ([]domain.GameLog, error) {
	doc, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	logs := doc[userID]
	if logs == nil {
		logs = []domain.GameLog{}
	}
	return logs, nil
}

func (s *GameLogsStore) CreateGameLog(ctx context.Context, userID int, log domain.GameLog) error {
	return s.c.Update(ctx, func(doc *map[int][]domain.GameLog) error {
		if *doc == nil {
			*doc = map[int][]domain.GameLog{}
		}
		logs := (*doc)[userID]
		for _, l := range logs {
			if l.ID == log.ID {
				return domain.ErrGameLogExists
			}
		}
		(*doc)[userID] = append(logs, log)
		return nil
	})
}

// UpdateGameLog replaces the user's log for gameID with fn's result. The log's
// game id cannot change.
func (s *GameLogsStore) UpdateGameLog(ctx context.Context, userID, gameID int, fn func(domain.GameLog) (domain.GameLog, error)) (domain.GameLog, error) {
	var updated domain.GameLog
	err := s.c.Update(ctx, func(doc *map[int][]domain.GameLog) error {
		logs := (*doc)[userID]
		for i, l := range logs {
			if l.ID != gameID {
				continue
			}
			next, err := fn(l)
			if err != nil {
				return err
			}
			next.ID = gameID
			logs[i] = next
			updated = next
			return nil
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return domain.GameLog{}, err
	}
	return updated, nil
}

func (s *GameLogsStore) DeleteGameLog(ctx context.Context, userID, gameID int) error {
	return s.c.Update(ctx, func(doc *map[int][]domain.GameLog) error {
		logs := (*doc)[userID]
		kept := make([]domain.GameLog, 0, len(logs))
		for _, l := range logs {
			if l.ID != gameID {
				kept = append(kept, l)
			}
		}
		if len(kept) == len(logs) {
			return domain.ErrNotFound
		}
		(*doc)[userID] = kept
		return nil
	})
}
