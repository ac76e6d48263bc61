package domain

type User struct {
	ID       int          `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Picture  string       `json:"picture"`
	Bio      string       `json:"bio"`
	Online   bool         `json:"online"`
	Friends  []FriendEdge `json:"friends"`
}

type UserWithPassword struct {
	User
	PasswordHash string
}

// FriendStatus returns u's status toward peer. Only the first edge counts when
// a record carries duplicates.
func (u User) FriendStatus(peer int) FriendStatus {
	for _, e := range u.Friends {
		if e.ID == peer {
			return e.Status
		}
	}
	return FriendStatusNone
}

type UserSummary struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Picture  string `json:"picture,omitempty"`
	Online   bool   `json:"online"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Picture: u.Picture, Online: u.Online}
}

type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Picture      string
	Bio          string
}

// UserUpdate carries a partial profile edit; nil fields are left unchanged.
type UserUpdate struct {
	Username     *string
	Email        *string
	Picture      *string
	Bio          *string
	Online       *bool
	PasswordHash *string
}

type LookupField string

const (
	LookupByID       LookupField = "id"
	LookupByEmail    LookupField = "email"
	LookupByUsername LookupField = "username"
)

func ParseLookupField(s string) (LookupField, bool) {
	switch f := LookupField(s); f {
	case LookupByID, LookupByEmail, LookupByUsername:
		return f, true
	default:
		return "", false
	}
}
