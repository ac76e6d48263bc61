package service

import (
	"context"
	"strconv"
	"strings"

	"playrates/internal/auth"
	"playrates/internal/domain"
)

type UsersService struct {
	Users       UsersStore
	Credentials auth.CredentialVerifier
}

func (s *UsersService) List(ctx context.Context) ([]domain.User, error) {
	return s.Users.ListUsers(ctx)
}

// Find looks a user up by id, email or username. An id that is not a number
// matches nobody.
func (s *UsersService) Find(ctx context.Context, field domain.LookupField, value string) (domain.User, error) {
	switch field {
	case domain.LookupByID:
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return domain.User{}, domain.ErrNotFound
		}
		return s.Users.GetUserByID(ctx, id)
	case domain.LookupByEmail:
		return s.Users.GetUserByEmail(ctx, value)
	case domain.LookupByUsername:
		return s.Users.GetUserByUsername(ctx, value)
	default:
		return domain.User{}, domain.ErrNotFound
	}
}

type ProfileParams struct {
	Username *string
	Email    *string
	Picture  *string
	Bio      *string
	Online   *bool
	Password *string
}

func (s *UsersService) UpdateProfile(ctx context.Context, userID int, p ProfileParams) (domain.User, error) {
	upd := domain.UserUpdate{Bio: p.Bio, Online: p.Online}
	fields := map[string]string{}

	if p.Username != nil {
		v := normalizeUsername(*p.Username)
		if !validUsername(v) {
			fields["username"] = "must be 3-24 chars [A-Za-z0-9_]"
		}
		upd.Username = &v
	}
	if p.Email != nil {
		v := normalizeEmail(*p.Email)
		if !validEmail(v) {
			fields["email"] = "must be a valid email address"
		}
		upd.Email = &v
	}
	if p.Picture != nil {
		v := strings.TrimSpace(*p.Picture)
		upd.Picture = &v
	}
	if p.Password != nil && len(*p.Password) < minPasswordLen {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return domain.User{}, domain.NewValidationError(fields)
	}

	if p.Password != nil {
		hash, err := s.Credentials.Hash(*p.Password)
		if err != nil {
			return domain.User{}, err
		}
		upd.PasswordHash = &hash
	}

	return s.Users.UpdateUser(ctx, userID, upd)
}
