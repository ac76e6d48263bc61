package service

import (
	"context"
	"strings"

	"playrates/internal/domain"
)

type GameLogsStore interface {
	ListAll(ctx context.Context) (map[int][]domain.GameLog, error)
	ListForUser(ctx context.Context, userID int) ([]domain.GameLog, error)
	CreateGameLog(ctx context.Context, userID int, log domain.GameLog) error
	UpdateGameLog(ctx context.Context, userID, gameID int, fn func(domain.GameLog) (domain.GameLog, error)) (domain.GameLog, error)
	DeleteGameLog(ctx context.Context, userID, gameID int) error
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id int) (domain.User, error)
}

type GameCatalog interface {
	Get(id int) (domain.Game, error)
}

type GameLogsService struct {
	Logs  GameLogsStore
	Users UserLookup
	Games GameCatalog
}

func (s *GameLogsService) ListAll(ctx context.Context) (map[int][]domain.GameLog, error) {
	return s.Logs.ListAll(ctx)
}

// ListForUser does not check that the user exists; unknown users have no logs.
func (s *GameLogsService) ListForUser(ctx context.Context, userID int) ([]domain.GameLog, error) {
	return s.Logs.ListForUser(ctx, userID)
}

func (s *GameLogsService) Create(ctx context.Context, userID int, log domain.GameLog) (domain.GameLog, error) {
	log.Platform = strings.TrimSpace(log.Platform)
	if err := log.Validate(); err != nil {
		return domain.GameLog{}, err
	}
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		return domain.GameLog{}, err
	}
	if _, err := s.Games.Get(log.ID); err != nil {
		return domain.GameLog{}, err
	}
	if err := s.Logs.CreateGameLog(ctx, userID, log); err != nil {
		return domain.GameLog{}, err
	}
	return log, nil
}

// GameLogPatch is a partial edit; nil fields keep their stored value.
type GameLogPatch struct {
	Status                *domain.GameLogStatus `json:"status"`
	Rating                *float64              `json:"rating"`
	HoursPlayed           *float64              `json:"hoursPlayed"`
	HoursToBeat           *float64              `json:"hoursToBeat"`
	StartDate             *string               `json:"startDate"`
	FinishDate            *string               `json:"finishDate"`
	Platform              *string               `json:"platform"`
	AchievementsTotal     *int                  `json:"achievementsTotal"`
	AchievementsCompleted *int                  `json:"achievementsCompleted"`
}

func (p GameLogPatch) apply(l domain.GameLog) domain.GameLog {
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Rating != nil {
		l.Rating = p.Rating
	}
	if p.HoursPlayed != nil {
		l.HoursPlayed = p.HoursPlayed
	}
	if p.HoursToBeat != nil {
		l.HoursToBeat = p.HoursToBeat
	}
	if p.StartDate != nil {
		l.StartDate = strings.TrimSpace(*p.StartDate)
	}
	if p.FinishDate != nil {
		l.FinishDate = strings.TrimSpace(*p.FinishDate)
	}
	if p.Platform != nil {
		l.Platform = strings.TrimSpace(*p.Platform)
	}
	if p.AchievementsTotal != nil {
		l.AchievementsTotal = p.AchievementsTotal
	}
	if p.AchievementsCompleted != nil {
		l.AchievementsCompleted = p.AchievementsCompleted
	}
	return l
}

func (s *GameLogsService) Update(ctx context.Context, userID, gameID int, patch GameLogPatch) (domain.GameLog, error) {
	return s.Logs.UpdateGameLog(ctx, userID, gameID, func(cur domain.GameLog) (domain.GameLog, error) {
		next := patch.apply(cur)
		if err := next.Validate(); err != nil {
			return domain.GameLog{}, err
		}
		return next, nil
	})
}

func (s *GameLogsService) Delete(ctx context.Context, userID, gameID int) error {
	return s.Logs.DeleteGameLog(ctx, userID, gameID)
}
