package domain

import "time"

type Game struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Trending    bool         `json:"trending"`
	ReleaseDate string       `json:"releaseDate"`
	Platforms   []string     `json:"platforms"`
	Listings    GameListings `json:"listings"`
}

type GameListings struct {
	Played   int `json:"played"`
	Playing  int `json:"playing"`
	Backlog  int `json:"backlog"`
	Wishlist int `json:"wishlist"`
}

type GameLogStatus string

const (
	GameLogPlayed   GameLogStatus = "played"
	GameLogPlaying  GameLogStatus = "playing"
	GameLogBacklog  GameLogStatus = "backlog"
	GameLogWishlist GameLogStatus = "wishlist"
)

func (s GameLogStatus) Valid() bool {
	switch s {
	case GameLogPlayed, GameLogPlaying, GameLogBacklog, GameLogWishlist:
		return true
	}
	return false
}

// GameLog is one user's record for one game. ID is the game id.
type GameLog struct {
	ID                    int           `json:"id"`
	Status                GameLogStatus `json:"status"`
	Rating                *float64      `json:"rating,omitempty"`
	HoursPlayed           *float64      `json:"hoursPlayed,omitempty"`
	HoursToBeat           *float64      `json:"hoursToBeat,omitempty"`
	StartDate             string        `json:"startDate,omitempty"`
	FinishDate            string        `json:"finishDate,omitempty"`
	Platform              string        `json:"platform,omitempty"`
	AchievementsTotal     *int          `json:"achievementsTotal,omitempty"`
	AchievementsCompleted *int          `json:"achievementsCompleted,omitempty"`
}

const DateLayout = "2006-01-02"

const MaxRating = 10

// Validate checks field ranges. Field names in the returned error match the
// JSON names.
func (l GameLog) Validate() error {
	fields := map[string]string{}
	if !l.Status.Valid() {
		fields["status"] = "must be one of played, playing, backlog, wishlist"
	}
	if l.Rating != nil && (*l.Rating < 0 || *l.Rating > MaxRating) {
		fields["rating"] = "must be between 0 and 10"
	}
	if l.HoursPlayed != nil && *l.HoursPlayed < 0 {
		fields["hoursPlayed"] = "must be >= 0"
	}
	if l.HoursToBeat != nil && *l.HoursToBeat < 0 {
		fields["hoursToBeat"] = "must be >= 0"
	}
	if l.AchievementsTotal != nil && *l.AchievementsTotal < 0 {
		fields["achievementsTotal"] = "must be >= 0"
	}
	if l.AchievementsCompleted != nil {
		switch {
		case *l.AchievementsCompleted < 0:
			fields["achievementsCompleted"] = "must be >= 0"
		case l.AchievementsTotal != nil && *l.AchievementsCompleted > *l.AchievementsTotal:
			fields["achievementsCompleted"] = "must not exceed achievementsTotal"
		}
	}

	var start, finish time.Time
	if l.StartDate != "" {
		t, err := time.Parse(DateLayout, l.StartDate)
		if err != nil {
			fields["startDate"] = "must be YYYY-MM-DD"
		}
		start = t
	}
	if l.FinishDate != "" {
		t, err := time.Parse(DateLayout, l.FinishDate)
		if err != nil {
			fields["finishDate"] = "must be YYYY-MM-DD"
		}
		finish = t
	}
	if !start.IsZero() && !finish.IsZero() && finish.Before(start) {
		fields["finishDate"] = "must not be before startDate"
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

type Review struct {
	GameID       int    `json:"gameID"`
	Text         string `json:"text"`
	CreationDate string `json:"creationDate"`
	Public       bool   `json:"public"`
}

// GameReview is a review joined with its author's display fields and the
// author's log for the same game.
type GameReview struct {
	Review
	UserID   int           `json:"userID"`
	Username string        `json:"username"`
	Picture  string        `json:"picture,omitempty"`
	Status   GameLogStatus `json:"status,omitempty"`
	Rating   *float64      `json:"rating,omitempty"`
}
