package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"playrates/internal/auth"
	"playrates/internal/domain"
)

type UsersStore interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error)
	CreateUser(ctx context.Context, nu domain.NewUser) (domain.User, error)
	UpdateUser(ctx context.Context, id int, upd domain.UserUpdate) (domain.User, error)
}

type AuthService struct {
	Users       UsersStore
	Credentials auth.CredentialVerifier
	Logger      *slog.Logger
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Picture  string
	Bio      string
}

func (s *AuthService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	p.Username = normalizeUsername(p.Username)
	p.Email = normalizeEmail(p.Email)

	fields := map[string]string{}
	if !validUsername(p.Username) {
		fields["username"] = "must be 3-24 chars [A-Za-z0-9_]"
	}
	if !validEmail(p.Email) {
		fields["email"] = "must be a valid email address"
	}
	if len(p.Password) < minPasswordLen {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return domain.User{}, domain.NewValidationError(fields)
	}

	hash, err := s.Credentials.Hash(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	return s.Users.CreateUser(ctx, domain.NewUser{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Picture:      strings.TrimSpace(p.Picture),
		Bio:          p.Bio,
	})
}

// Login verifies the credential and marks the user online. Legacy or stale
// credentials are rehashed in the same update.
func (s *AuthService) Login(ctx context.Context, login, password string) (domain.User, error) {
	login = strings.TrimSpace(login)

	u, err := s.Users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	ok, needsRehash, err := s.Credentials.Verify(u.PasswordHash, password)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	online := true
	upd := domain.UserUpdate{Online: &online}
	if needsRehash {
		hash, err := s.Credentials.Hash(password)
		if err != nil {
			return domain.User{}, err
		}
		upd.PasswordHash = &hash
		s.logger().Info("credential upgraded", "user_id", u.ID)
	}

	return s.Users.UpdateUser(ctx, u.ID, upd)
}

func (s *AuthService) Logout(ctx context.Context, userID int) error {
	online := false
	_, err := s.Users.UpdateUser(ctx, userID, domain.UserUpdate{Online: &online})
	return err
}

func (s *AuthService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
