package jsonfile

import (
	"context"

	"playrates/internal/domain"
)

type ReviewsStore struct {
	c *Collection[map[int][]domain.Review]
}

func (s *ReviewsStore) ListAll(ctx context.Context) (map[int][]domain.Review, error) {
	doc, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[int][]domain.Review{}
	}
	return doc, nil
}

func (s *ReviewsStore) ListForUser(ctx context.Context, userID int) ([]domain.Review, error) {
	doc, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	reviews := doc[userID]
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *ReviewsStore) CreateReview(ctx context.Context, userID int, r domain.Review) error {
	return s.c.Update(ctx, func(doc *map[int][]domain.Review) error {
		if *doc == nil {
			*doc = map[int][]domain.Review{}
		}
		for _, existing := range (*doc)[userID] {
			if existing.GameID == r.GameID {
				return domain.ErrReviewExists
			}
		}
		(*doc)[userID] = append((*doc)[userID], r)
		return nil
	})
}
