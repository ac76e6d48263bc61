package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"playrates/internal/domain"
	"playrates/internal/store/jsonfile"
)

const threeUsers = `[
  {"id": 1, "username": "ana", "email": "ana@example.com", "password": "pw", "friends": []},
  {"id": 2, "username": "bo", "email": "bo@example.com", "password": "pw", "friends": []},
  {"id": 3, "username": "cy", "email": "cy@example.com", "password": "pw", "friends": []}
]`

func newFriendsService(t *testing.T) (*FriendsService, *jsonfile.Store) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, jsonfile.UsersFile), []byte(threeUsers), 0o644); err != nil {
		t.Fatalf("write users: %v", err)
	}
	st, err := jsonfile.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &FriendsService{Users: st.Users}, st
}

func statusBetween(t *testing.T, st *jsonfile.Store, a, b int) domain.FriendStatus {
	t.Helper()
	u, err := st.Users.GetUserByID(context.Background(), a)
	if err != nil {
		t.Fatalf("get user %d: %v", a, err)
	}
	return u.FriendStatus(b)
}

func TestFriendsSendAcceptIsSymmetric(t *testing.T) {
	ctx := context.Background()
	svc, st := newFriendsService(t)

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if got := statusBetween(t, st, 1, 2); got != domain.FriendStatusRequestSent {
		t.Fatalf("1->2: %q", got)
	}
	if got := statusBetween(t, st, 2, 1); got != domain.FriendStatusRequestReceived {
		t.Fatalf("2->1: %q", got)
	}

	if err := svc.Accept(ctx, 2, 1); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	for _, pair := range [][2]int{{1, 2}, {2, 1}} {
		u, _ := st.Users.GetUserByID(ctx, pair[0])
		if len(u.Friends) != 1 || u.Friends[0] != (domain.FriendEdge{ID: pair[1], Status: domain.FriendStatusFriend}) {
			t.Fatalf("user %d friends: %#v", pair[0], u.Friends)
		}
	}
}

func TestFriendsSendRejectsSelfDuplicateAndMissing(t *testing.T) {
	ctx := context.Background()
	svc, st := newFriendsService(t)

	if err := svc.SendRequest(ctx, 1, 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self: expected validation error, got %v", err)
	}
	if err := svc.SendRequest(ctx, 1, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
	if got := statusBetween(t, st, 1, 42); got != domain.FriendStatusNone {
		t.Fatalf("edge written for missing user: %q", got)
	}

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.SendRequest(ctx, 1, 2); !errors.Is(err, domain.ErrFriendshipExists) {
		t.Fatalf("duplicate: expected ErrFriendshipExists, got %v", err)
	}
	if err := svc.SendRequest(ctx, 2, 1); !errors.Is(err, domain.ErrFriendshipExists) {
		t.Fatalf("reverse: expected ErrFriendshipExists, got %v", err)
	}
}

func TestFriendsDeclineCancelRemove(t *testing.T) {
	ctx := context.Background()
	svc, st := newFriendsService(t)

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.Decline(ctx, 1, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("sender declining: expected ErrNotFound, got %v", err)
	}
	if err := svc.Decline(ctx, 2, 1); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if statusBetween(t, st, 1, 2) != domain.FriendStatusNone || statusBetween(t, st, 2, 1) != domain.FriendStatusNone {
		t.Fatalf("decline left edges behind")
	}

	if err := svc.SendRequest(ctx, 1, 3); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.Cancel(ctx, 3, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("addressee cancelling: expected ErrNotFound, got %v", err)
	}
	if err := svc.Cancel(ctx, 1, 3); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if statusBetween(t, st, 3, 1) != domain.FriendStatusNone {
		t.Fatalf("cancel left edge behind")
	}

	if err := svc.Remove(ctx, 1, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("remove stranger: expected ErrNotFound, got %v", err)
	}
	if err := svc.SendRequest(ctx, 2, 3); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.Accept(ctx, 3, 2); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := svc.Remove(ctx, 3, 2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if statusBetween(t, st, 2, 3) != domain.FriendStatusNone {
		t.Fatalf("remove left edge behind")
	}
}

func TestFriendsOverview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFriendsService(t)

	if err := svc.SendRequest(ctx, 2, 1); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.SendRequest(ctx, 1, 3); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	ov, err := svc.Overview(ctx, 1)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(ov.Friends) != 0 {
		t.Fatalf("unexpected friends: %#v", ov.Friends)
	}
	if len(ov.Incoming) != 1 || ov.Incoming[0].Username != "bo" {
		t.Fatalf("unexpected incoming: %#v", ov.Incoming)
	}
	if len(ov.Outgoing) != 1 || ov.Outgoing[0].Username != "cy" {
		t.Fatalf("unexpected outgoing: %#v", ov.Outgoing)
	}

	if _, err := svc.Overview(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
