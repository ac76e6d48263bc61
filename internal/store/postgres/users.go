package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"playrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, username, email, password_hash, picture, bio, online`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanUser(row pgx.Row) (domain.UserWithPassword, error) {
	var u domain.UserWithPassword
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Picture,
		&u.Bio,
		&u.Online,
	)
	return u, err
}

func (s *UsersStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Friends = []domain.FriendEdge{}
		out = append(out, u.User)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	edges, err := loadAllEdges(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if e, ok := edges[out[i].ID]; ok {
			out[i].Friends = e
		}
	}
	return out, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	u, err := s.getOne(ctx, s.pool, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return u.User, err
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.getOne(ctx, s.pool, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return u.User, err
}

func (s *UsersStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := s.getOne(ctx, s.pool, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return u.User, err
}

// GetUserByLogin matches login against usernames first, then emails.
func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $2
		ORDER BY (username = $1) DESC
		LIMIT 1
	`
	return s.getOne(ctx, s.pool, q, login, strings.ToLower(login))
}

func (s *UsersStore) getOne(ctx context.Context, q querier, sql string, args ...any) (domain.UserWithPassword, error) {
	u, err := scanUser(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user: %w", err)
	}

	u.Friends, err = loadEdges(ctx, q, u.ID)
	if err != nil {
		return domain.UserWithPassword{}, err
	}
	return u, nil
}

// CreateUser assigns the next id after the current maximum.
func (s *UsersStore) CreateUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, picture, bio)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5 FROM users
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, nu.Username, nu.Email, nu.PasswordHash, nu.Picture, nu.Bio))
	if err != nil {
		return domain.User{}, mapUserWriteError(err, "create user")
	}
	u.Friends = []domain.FriendEdge{}
	return u.User, nil
}

func (s *UsersStore) UpdateUser(ctx context.Context, id int, upd domain.UserUpdate) (domain.User, error) {
	const q = `
		UPDATE users SET
			username      = COALESCE($2, username),
			email         = COALESCE($3, email),
			picture       = COALESCE($4, picture),
			bio           = COALESCE($5, bio),
			online        = COALESCE($6, online),
			password_hash = COALESCE($7, password_hash)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, id, upd.Username, upd.Email, upd.Picture, upd.Bio, upd.Online, upd.PasswordHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, mapUserWriteError(err, "update user")
	}

	u.Friends, err = loadEdges(ctx, s.pool, id)
	if err != nil {
		return domain.User{}, err
	}
	return u.User, nil
}

func mapUserWriteError(err error, op string) error {
	if name, ok := uniqueViolation(err); ok {
		switch name {
		case "users_username_uq":
			return domain.ErrUsernameTaken
		case "users_email_uq":
			return domain.ErrEmailTaken
		default:
			return fmt.Errorf("unique violation (%s): %w", name, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
