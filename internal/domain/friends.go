package domain

type FriendStatus string

const (
	FriendStatusNone            FriendStatus = ""
	FriendStatusRequestSent     FriendStatus = "request-sent"
	FriendStatusRequestReceived FriendStatus = "request-received"
	FriendStatusFriend          FriendStatus = "friend"
)

// FriendEdge is one directed half of a friendship, stored inside the owning
// user's record. ID is the peer user.
type FriendEdge struct {
	ID     int          `json:"id"`
	Status FriendStatus `json:"status"`
}

type FriendAction string

const (
	FriendActionSend    FriendAction = "send"
	FriendActionAccept  FriendAction = "accept"
	FriendActionDecline FriendAction = "decline"
	FriendActionCancel  FriendAction = "cancel"
	FriendActionRemove  FriendAction = "remove"
)

// FriendPair is the relationship between two users as seen from the acting
// user A: A is A's edge toward B, B is B's edge toward A.
type FriendPair struct {
	A FriendStatus
	B FriendStatus
}

// Apply returns the pair after A performs action. Pairs left half-written by
// external edits can still be cleared by cancel, decline or remove.
func (p FriendPair) Apply(action FriendAction) (FriendPair, error) {
	switch action {
	case FriendActionSend:
		if p.A != FriendStatusNone || p.B != FriendStatusNone {
			return p, ErrFriendshipExists
		}
		return FriendPair{A: FriendStatusRequestSent, B: FriendStatusRequestReceived}, nil
	case FriendActionAccept:
		if p.A != FriendStatusRequestReceived || p.B != FriendStatusRequestSent {
			return p, ErrNotFound
		}
		return FriendPair{A: FriendStatusFriend, B: FriendStatusFriend}, nil
	case FriendActionDecline:
		if p.A != FriendStatusRequestReceived {
			return p, ErrNotFound
		}
		return FriendPair{}, nil
	case FriendActionCancel:
		if p.A != FriendStatusRequestSent {
			return p, ErrNotFound
		}
		return FriendPair{}, nil
	case FriendActionRemove:
		if p.A != FriendStatusFriend && p.B != FriendStatusFriend {
			return p, ErrNotFound
		}
		return FriendPair{}, nil
	default:
		return p, NewValidationError(map[string]string{"action": "unknown friend action"})
	}
}

// SetFriendEdge returns edges with the edge toward peer set to status.
// FriendStatusNone removes it. Duplicate edges toward peer are collapsed.
func SetFriendEdge(edges []FriendEdge, peer int, status FriendStatus) []FriendEdge {
	out := make([]FriendEdge, 0, len(edges)+1)
	placed := false
	for _, e := range edges {
		if e.ID != peer {
			out = append(out, e)
			continue
		}
		if placed || status == FriendStatusNone {
			continue
		}
		out = append(out, FriendEdge{ID: peer, Status: status})
		placed = true
	}
	if !placed && status != FriendStatusNone {
		out = append(out, FriendEdge{ID: peer, Status: status})
	}
	return out
}

type FriendsOverview struct {
	Friends  []UserSummary `json:"friends"`
	Incoming []UserSummary `json:"incoming_requests"`
	Outgoing []UserSummary `json:"outgoing_requests"`
}
