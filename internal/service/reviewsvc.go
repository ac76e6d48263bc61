package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"playrates/internal/domain"
)

type ReviewsStore interface {
	ListAll(ctx context.Context) (map[int][]domain.Review, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Review, error)
	CreateReview(ctx context.Context, userID int, r domain.Review) error
}

type ReviewsService struct {
	Reviews ReviewsStore
	Users   UserDirectory
	Logs    GameLogsStore
	Games   GameCatalog
	Now     func() time.Time
}

func (s *ReviewsService) ListAll(ctx context.Context) (map[int][]domain.Review, error) {
	return s.Reviews.ListAll(ctx)
}

func (s *ReviewsService) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.Reviews.ListForUser(ctx, userID)
}

// ListForGame joins every user's public reviews of gameID with the reviewer's
// display fields and their log for the game. Results are ordered by user id.
func (s *ReviewsService) ListForGame(ctx context.Context, gameID int) ([]domain.GameReview, error) {
	if _, err := s.Games.Get(gameID); err != nil {
		return nil, err
	}

	all, err := s.Reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.Logs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	userIDs := make([]int, 0, len(all))
	for id := range all {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	out := []domain.GameReview{}
	for _, uid := range userIDs {
		for _, r := range all[uid] {
			if r.GameID != gameID || !r.Public {
				continue
			}
			gr := domain.GameReview{Review: r, UserID: uid}
			if u, ok := byID[uid]; ok {
				gr.Username = u.Username
				gr.Picture = u.Picture
			}
			for _, l := range logs[uid] {
				if l.ID == gameID {
					gr.Status = l.Status
					gr.Rating = l.Rating
					break
				}
			}
			out = append(out, gr)
		}
	}
	return out, nil
}

type CreateReviewParams struct {
	GameID int
	Text   string
	Public bool
}

func (s *ReviewsService) Create(ctx context.Context, userID int, p CreateReviewParams) (domain.Review, error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	text := strings.TrimSpace(p.Text)
	if text == "" {
		return domain.Review{}, domain.NewValidationError(map[string]string{"text": "required"})
	}
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.Games.Get(p.GameID); err != nil {
		return domain.Review{}, err
	}

	r := domain.Review{
		GameID:       p.GameID,
		Text:         text,
		CreationDate: now().UTC().Format(domain.DateLayout),
		Public:       p.Public,
	}
	if err := s.Reviews.CreateReview(ctx, userID, r); err != nil {
		return domain.Review{}, err
	}
	return r, nil
}
