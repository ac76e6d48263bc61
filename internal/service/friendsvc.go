package service

import (
	"context"

	"playrates/internal/domain"
)

type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int) (domain.User, error)
}

// FriendUsersStore is the user storage the friend engine needs.
// UpdateFriendPair must persist both halves of the pair atomically, or
// neither when fn fails.
type FriendUsersStore interface {
	UserDirectory
	UpdateFriendPair(ctx context.Context, a, b int, fn func(domain.FriendPair) (domain.FriendPair, error)) error
}

type FriendsService struct {
	Users FriendUsersStore
}

// SendRequest records a pending request from fromID to toID.
func (s *FriendsService) SendRequest(ctx context.Context, fromID, toID int) error {
	return s.apply(ctx, fromID, toID, domain.FriendActionSend)
}

// Accept turns senderID's pending request to accepterID into a friendship.
func (s *FriendsService) Accept(ctx context.Context, accepterID, senderID int) error {
	return s.apply(ctx, accepterID, senderID, domain.FriendActionAccept)
}

func (s *FriendsService) Decline(ctx context.Context, declinerID, senderID int) error {
	return s.apply(ctx, declinerID, senderID, domain.FriendActionDecline)
}

func (s *FriendsService) Cancel(ctx context.Context, senderID, addresseeID int) error {
	return s.apply(ctx, senderID, addresseeID, domain.FriendActionCancel)
}

func (s *FriendsService) Remove(ctx context.Context, userID, friendID int) error {
	return s.apply(ctx, userID, friendID, domain.FriendActionRemove)
}

func (s *FriendsService) apply(ctx context.Context, actorID, peerID int, action domain.FriendAction) error {
	if actorID == peerID {
		return domain.NewValidationError(map[string]string{"id": "cannot friend yourself"})
	}
	return s.Users.UpdateFriendPair(ctx, actorID, peerID, func(p domain.FriendPair) (domain.FriendPair, error) {
		return p.Apply(action)
	})
}

// Overview groups userID's edges by status. Edges pointing at users that no
// longer exist are skipped.
func (s *FriendsService) Overview(ctx context.Context, userID int) (domain.FriendsOverview, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return domain.FriendsOverview{}, err
	}
	all, err := s.Users.ListUsers(ctx)
	if err != nil {
		return domain.FriendsOverview{}, err
	}
	byID := make(map[int]domain.User, len(all))
	for _, other := range all {
		byID[other.ID] = other
	}

	out := domain.FriendsOverview{
		Friends:  []domain.UserSummary{},
		Incoming: []domain.UserSummary{},
		Outgoing: []domain.UserSummary{},
	}
	seen := map[int]bool{}
	for _, e := range u.Friends {
		peer, ok := byID[e.ID]
		if !ok || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		switch e.Status {
		case domain.FriendStatusFriend:
			out.Friends = append(out.Friends, peer.Summary())
		case domain.FriendStatusRequestReceived:
			out.Incoming = append(out.Incoming, peer.Summary())
		case domain.FriendStatusRequestSent:
			out.Outgoing = append(out.Outgoing, peer.Summary())
		}
	}
	return out, nil
}
