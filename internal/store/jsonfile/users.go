package jsonfile

import (
	"context"
	"strings"

	"playrates/internal/domain"
)

// userRecord is the on-disk shape of a user. Password holds an argon2id PHC
// string, or plaintext for records that predate hashing.
type userRecord struct {
	ID       int                 `json:"id"`
	Username string              `json:"username"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	Picture  string              `json:"picture"`
	Bio      string              `json:"bio"`
	Online   bool                `json:"online"`
	Friends  []domain.FriendEdge `json:"friends"`
}

func (r userRecord) user() domain.User {
	friends := make([]domain.FriendEdge, len(r.Friends))
	copy(friends, r.Friends)
	return domain.User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Picture:  r.Picture,
		Bio:      r.Bio,
		Online:   r.Online,
		Friends:  friends,
	}
}

type UsersStore struct {
	c *Collection[[]userRecord]
}

func (s *UsersStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	recs, err := s.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.user())
	}
	return out, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	return s.find(ctx, func(r userRecord) bool { return r.ID == id })
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.find(ctx, func(r userRecord) bool { return r.Email == email })
}

func (s *UsersStore) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.find(ctx, func(r userRecord) bool { return r.Username == username })
}

// GetUserByLogin matches login against usernames first, then emails.
func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	recs, err := s.c.Load(ctx)
	if err != nil {
		return domain.UserWithPassword{}, err
	}
	if i := indexOf(recs, func(r userRecord) bool { return r.Username == login }); i >= 0 {
		return domain.UserWithPassword{User: recs[i].user(), PasswordHash: recs[i].Password}, nil
	}
	email := strings.ToLower(login)
	if i := indexOf(recs, func(r userRecord) bool { return r.Email != "" && r.Email == email }); i >= 0 {
		return domain.UserWithPassword{User: recs[i].user(), PasswordHash: recs[i].Password}, nil
	}
	return domain.UserWithPassword{}, domain.ErrNotFound
}

func (s *UsersStore) CreateUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	var created domain.User
	err := s.c.Update(ctx, func(recs *[]userRecord) error {
		if err := checkUnique(*recs, 0, nu.Username, nu.Email); err != nil {
			return err
		}
		maxID := 0
		for _, r := range *recs {
			maxID = max(maxID, r.ID)
		}
		rec := userRecord{
			ID:       maxID + 1,
			Username: nu.Username,
			Email:    nu.Email,
			Password: nu.PasswordHash,
			Picture:  nu.Picture,
			Bio:      nu.Bio,
			Friends:  []domain.FriendEdge{},
		}
		*recs = append(*recs, rec)
		created = rec.user()
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return created, nil
}

func (s *UsersStore) UpdateUser(ctx context.Context, id int, upd domain.UserUpdate) (domain.User, error) {
	var updated domain.User
	err := s.c.Update(ctx, func(recs *[]userRecord) error {
		i := indexOf(*recs, func(r userRecord) bool { return r.ID == id })
		if i < 0 {
			return domain.ErrNotFound
		}
		rec := &(*recs)[i]

		username, email := "", ""
		if upd.Username != nil {
			username = *upd.Username
		}
		if upd.Email != nil {
			email = *upd.Email
		}
		if err := checkUnique(*recs, id, username, email); err != nil {
			return err
		}

		if upd.Username != nil {
			rec.Username = *upd.Username
		}
		if upd.Email != nil {
			rec.Email = *upd.Email
		}
		if upd.Picture != nil {
			rec.Picture = *upd.Picture
		}
		if upd.Bio != nil {
			rec.Bio = *upd.Bio
		}
		if upd.Online != nil {
			rec.Online = *upd.Online
		}
		if upd.PasswordHash != nil {
			rec.Password = *upd.PasswordHash
		}
		updated = rec.user()
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

// UpdateFriendPair rewrites both halves of the a/b relationship in a single
// save of the users file.
func (s *UsersStore) UpdateFriendPair(ctx context.Context, a, b int, fn func(domain.FriendPair) (domain.FriendPair, error)) error {
	return s.c.Update(ctx, func(recs *[]userRecord) error {
		ia := indexOf(*recs, func(r userRecord) bool { return r.ID == a })
		ib := indexOf(*recs, func(r userRecord) bool { return r.ID == b })
		if ia < 0 || ib < 0 {
			return domain.ErrNotFound
		}
		ra, rb := &(*recs)[ia], &(*recs)[ib]

		cur := domain.FriendPair{
			A: ra.user().FriendStatus(b),
			B: rb.user().FriendStatus(a),
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}

		ra.Friends = domain.SetFriendEdge(ra.Friends, b, next.A)
		rb.Friends = domain.SetFriendEdge(rb.Friends, a, next.B)
		return nil
	})
}

func (s *UsersStore) find(ctx context.Context, match func(userRecord) bool) (domain.User, error) {
	recs, err := s.c.Load(ctx)
	if err != nil {
		return domain.User{}, err
	}
	i := indexOf(recs, match)
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return recs[i].user(), nil
}

// checkUnique rejects username/email values already held by a user other than
// self. Empty values are not checked.
func checkUnique(recs []userRecord, self int, username, email string) error {
	for _, r := range recs {
		if r.ID == self {
			continue
		}
		if username != "" && r.Username == username {
			return domain.ErrUsernameTaken
		}
		if email != "" && r.Email == email {
			return domain.ErrEmailTaken
		}
	}
	return nil
}

func indexOf(recs []userRecord, match func(userRecord) bool) int {
	for i, r := range recs {
		if match(r) {
			return i
		}
	}
	return -1
}
