package domain

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestGameLogValidate(t *testing.T) {
	ok := GameLog{
		ID:                    1,
		Status:                GameLogPlayed,
		Rating:                ptr(8.5),
		HoursPlayed:           ptr(40.0),
		StartDate:             "2024-01-02",
		FinishDate:            "2024-02-01",
		AchievementsTotal:     ptr(50),
		AchievementsCompleted: ptr(50),
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := GameLog{
		ID:                    1,
		Status:                "finished",
		Rating:                ptr(11.0),
		HoursToBeat:           ptr(-1.0),
		StartDate:             "2024-03-01",
		FinishDate:            "2024-02-01",
		AchievementsTotal:     ptr(3),
		AchievementsCompleted: ptr(4),
	}
	err := bad.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, f := range []string{"status", "rating", "hoursToBeat", "finishDate", "achievementsCompleted"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Fatalf("missing field %q in %v", f, verr.Fields)
		}
	}

	if err := (GameLog{Status: GameLogBacklog, StartDate: "01/02/2024"}).Validate(); err == nil {
		t.Fatalf("expected bad date to fail")
	}
}
