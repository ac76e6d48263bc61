package postgres

import (
	"context"
	"errors"
	"fmt"

	"playrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameLogsStore struct {
	pool *pgxpool.Pool
}

func NewGameLogsStore(pool *pgxpool.Pool) *GameLogsStore {
	return &GameLogsStore{pool: pool}
}

const gameLogColumns = `game_id, status, rating, hours_played, hours_to_beat, start_date, finish_date,
	platform, achievements_total, achievements_completed`

func scanGameLog(row pgx.Row, extra ...any) (domain.GameLog, error) {
	var (
		l                     domain.GameLog
		rating, played, beat  pgtype.Float8
		start, finish, plat   pgtype.Text
		achTotal, achComplete pgtype.Int4
	)
	dest := append(extra, &l.ID, &l.Status, &rating, &played, &beat, &start, &finish, &plat, &achTotal, &achComplete)
	if err := row.Scan(dest...); err != nil {
		return domain.GameLog{}, err
	}
	l.Rating = float8Ptr(rating)
	l.HoursPlayed = float8Ptr(played)
	l.HoursToBeat = float8Ptr(beat)
	l.StartDate = textOrEmpty(start)
	l.FinishDate = textOrEmpty(finish)
	l.Platform = textOrEmpty(plat)
	l.AchievementsTotal = int4Ptr(achTotal)
	l.AchievementsCompleted = int4Ptr(achComplete)
	return l, nil
}

func (s *GameLogsStore) ListAll(ctx context.Context) (map[int][]domain.GameLog, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id, `+gameLogColumns+` FROM game_logs ORDER BY user_id, created_at, game_id`)
	if err != nil {
		return nil, fmt.Errorf("list game logs: %w", err)
	}
	defer rows.Close()

	out := map[int][]domain.GameLog{}
	for rows.Next() {
		var userID int
		l, err := scanGameLog(rows, &userID)
		if err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}
		out[userID] = append(out[userID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list game logs: %w", err)
	}
	return out, nil
}

func (s *GameLogsStore) ListForUser(ctx context.Context, userID int) ([]domain.GameLog, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+gameLogColumns+` FROM game_logs WHERE user_id = $1 ORDER BY created_at, game_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list game logs: %w", err)
	}
	defer rows.Close()

	out := []domain.GameLog{}
	for rows.Next() {
		l, err := scanGameLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list game logs: %w", err)
	}
	return out, nil
}

func gameLogArgs(userID int, l domain.GameLog) []any {
	return []any{
		userID,
		l.ID,
		string(l.Status),
		l.Rating,
		l.HoursPlayed,
		l.HoursToBeat,
		nullIfEmpty(l.StartDate),
		nullIfEmpty(l.FinishDate),
		nullIfEmpty(l.Platform),
		l.AchievementsTotal,
		l.AchievementsCompleted,
	}
}

func (s *GameLogsStore) CreateGameLog(ctx context.Context, userID int, log domain.GameLog) error {
	const q = `
		INSERT INTO game_logs (user_id, game_id, status, rating, hours_played, hours_to_beat,
			start_date, finish_date, platform, achievements_total, achievements_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := s.pool.Exec(ctx, q, gameLogArgs(userID, log)...); err != nil {
		if name, ok := uniqueViolation(err); ok && name == "game_logs_user_game_uq" {
			return domain.ErrGameLogExists
		}
		if foreignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("create game log: %w", err)
	}
	return nil
}

// UpdateGameLog reads the row under lock, applies fn and writes the result
// back. The game id never changes.
func (s *GameLogsStore) UpdateGameLog(ctx context.Context, userID, gameID int, fn func(domain.GameLog) (domain.GameLog, error)) (domain.GameLog, error) {
	var updated domain.GameLog
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := scanGameLog(tx.QueryRow(ctx,
			`SELECT `+gameLogColumns+` FROM game_logs WHERE user_id = $1 AND game_id = $2 FOR UPDATE`,
			userID, gameID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("read game log: %w", err)
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}
		next.ID = gameID

		const q = `
			UPDATE game_logs SET
				status = $3, rating = $4, hours_played = $5, hours_to_beat = $6,
				start_date = $7, finish_date = $8, platform = $9,
				achievements_total = $10, achievements_completed = $11
			WHERE user_id = $1 AND game_id = $2
		`
		if _, err := tx.Exec(ctx, q, gameLogArgs(userID, next)...); err != nil {
			return fmt.Errorf("update game log: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return domain.GameLog{}, err
	}
	return updated, nil
}

func (s *GameLogsStore) DeleteGameLog(ctx context.Context, userID, gameID int) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM game_logs WHERE user_id = $1 AND game_id = $2`, userID, gameID)
	if err != nil {
		return fmt.Errorf("delete game log: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
