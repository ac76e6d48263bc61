package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playrates/internal/auth"
	"playrates/internal/domain"
	"playrates/internal/service"
	"playrates/internal/store/jsonfile"
)

const (
	testUsers = `[
  {"id": 1, "username": "ana", "email": "ana@example.com", "password": "password1", "picture": "ana.png", "friends": []},
  {"id": 2, "username": "bo", "email": "bo@example.com", "password": "password2", "friends": []}
]`
	testGames = `[
  {"id": 10, "title": "Outer Wilds", "trending": true, "releaseDate": "2019-05-28", "platforms": ["PC"], "listings": {"played": 3, "playing": 1, "backlog": 0, "wishlist": 2}},
  {"id": 11, "title": "Hades", "trending": false, "releaseDate": "2020-09-17", "platforms": ["PC", "Switch"], "listings": {"played": 0, "playing": 0, "backlog": 0, "wishlist": 0}}
]`
)

type testEnv struct {
	handler http.Handler
	store   *jsonfile.Store
	dir     string
}

func newTestEnv(t *testing.T, files map[string]string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	st, err := jsonfile.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	games, err := service.NewGamesService(context.Background(), st.Games)
	if err != nil {
		t.Fatalf("load games: %v", err)
	}
	creds := &auth.Argon2Verifier{
		Params:               auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32},
		AllowLegacyPlaintext: true,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewRouter(RouterOpts{
		Logger:   logger,
		Auth:     &service.AuthService{Users: st.Users, Credentials: creds, Logger: logger},
		Users:    &service.UsersService{Users: st.Users, Credentials: creds},
		Friends:  &service.FriendsService{Users: st.Users},
		Games:    games,
		GameLogs: &service.GameLogsService{Logs: st.GameLogs, Users: st.Users, Games: games},
		Reviews:  &service.ReviewsService{Reviews: st.Reviews, Users: st.Users, Logs: st.GameLogs, Games: games},
	})
	return &testEnv{handler: h, store: st, dir: dir}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBodyInto(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env errorEnvelope
	decodeBodyInto(t, rr, &env)
	return env.Error.Code
}

func TestFriendRequestSendThenAccept(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	rr := env.do(t, http.MethodPatch, "/friends/add/2", `{"id":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("add status = %d body=%s", rr.Code, rr.Body.String())
	}
	var msg messageResponse
	decodeBodyInto(t, rr, &msg)
	if msg.Message != "Friend request sent" {
		t.Fatalf("add message = %q", msg.Message)
	}

	rr = env.do(t, http.MethodGet, "/friends/2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("overview status = %d", rr.Code)
	}
	var ov domain.FriendsOverview
	decodeBodyInto(t, rr, &ov)
	if len(ov.Incoming) != 1 || ov.Incoming[0].ID != 1 || ov.Incoming[0].Username != "ana" {
		t.Fatalf("unexpected incoming: %#v", ov.Incoming)
	}

	rr = env.do(t, http.MethodPatch, "/friends/accept/1", `{"id":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("accept status = %d body=%s", rr.Code, rr.Body.String())
	}
	decodeBodyInto(t, rr, &msg)
	if msg.Message != "Friend Request accepted" {
		t.Fatalf("accept message = %q", msg.Message)
	}

	ctx := context.Background()
	for _, pair := range [][2]int{{1, 2}, {2, 1}} {
		u, err := env.store.Users.GetUserByID(ctx, pair[0])
		if err != nil {
			t.Fatalf("get user %d: %v", pair[0], err)
		}
		if got := u.FriendStatus(pair[1]); got != domain.FriendStatusFriend {
			t.Fatalf("user %d -> %d status = %q", pair[0], pair[1], got)
		}
	}
}

func TestFriendTransitionErrors(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing body id", "/friends/add/2", `{}`, http.StatusBadRequest, "validation_error"},
		{"non-numeric peer", "/friends/add/bo", `{"id":1}`, http.StatusBadRequest, "validation_error"},
		{"self request", "/friends/add/1", `{"id":1}`, http.StatusBadRequest, "validation_error"},
		{"unknown peer", "/friends/add/99", `{"id":1}`, http.StatusNotFound, "not_found"},
		{"accept without request", "/friends/accept/1", `{"id":2}`, http.StatusNotFound, "not_found"},
		{"remove non-friend", "/friends/remove/2", `{"id":1}`, http.StatusNotFound, "not_found"},
		{"bad json", "/friends/add/2", `{`, http.StatusBadRequest, "bad_json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPatch, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			if got := errorCode(t, rr); got != tt.code {
				t.Fatalf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestFriendDuplicateSendConflicts(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	if rr := env.do(t, http.MethodPatch, "/friends/add/2", `{"id":1}`); rr.Code != http.StatusOK {
		t.Fatalf("first add status = %d", rr.Code)
	}
	rr := env.do(t, http.MethodPatch, "/friends/add/2", `{"id":1}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second add status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodPatch, "/friends/cancel/2", `{"id":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel status = %d body=%s", rr.Code, rr.Body.String())
	}
	var msg messageResponse
	decodeBodyInto(t, rr, &msg)
	if msg.Message != "Friend request cancelled" {
		t.Fatalf("cancel message = %q", msg.Message)
	}
}

func TestUsersFind(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	tests := []struct {
		path   string
		status int
		wantID int
	}{
		{"/users/id/2", http.StatusOK, 2},
		{"/users/email/ana@example.com", http.StatusOK, 1},
		{"/users/username/bo", http.StatusOK, 2},
		{"/users/id/abc", http.StatusNotFound, 0},
		{"/users/id/42", http.StatusNotFound, 0},
		{"/users/nickname/bo", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tt.path, "")
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var u domain.User
			decodeBodyInto(t, rr, &u)
			if u.ID != tt.wantID {
				t.Fatalf("id = %d, want %d", u.ID, tt.wantID)
			}
		})
	}
}

func TestUsersResponsesNeverIncludePassword(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	rr := env.do(t, http.MethodGet, "/users", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Fatalf("credential leaked: %s", rr.Body.String())
	}
}

func TestUsersCreateAndLogin(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	rr := env.do(t, http.MethodPost, "/users", `{"username":"cyd","email":" CY@Example.com ","password":"longenough"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rr.Code, rr.Body.String())
	}
	var created domain.User
	decodeBodyInto(t, rr, &created)
	if created.ID != 3 || created.Email != "cy@example.com" {
		t.Fatalf("unexpected user: %#v", created)
	}

	rr = env.do(t, http.MethodPost, "/users", `{"username":"cyd","email":"other@example.com","password":"longenough"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/users", `{"username":"x","email":"nope","password":"short"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", rr.Code)
	}
	var env400 errorEnvelope
	decodeBodyInto(t, rr, &env400)
	for _, f := range []string{"username", "email", "password"} {
		if _, ok := env400.Error.Fields[f]; !ok {
			t.Fatalf("missing field error %q: %#v", f, env400.Error.Fields)
		}
	}

	rr = env.do(t, http.MethodPost, "/login", `{"login":"cy@example.com","password":"longenough"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rr.Code, rr.Body.String())
	}
	var u domain.User
	decodeBodyInto(t, rr, &u)
	if !u.Online {
		t.Fatalf("expected online after login")
	}

	rr = env.do(t, http.MethodPost, "/login", `{"login":"cyd","password":"wrong-password"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/logout", `{"id":3}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rr.Code)
	}
	got, err := env.store.Users.GetUserByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Online {
		t.Fatalf("expected offline after logout")
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	var last int
	for i := 0; i < 11; i++ {
		rr := env.do(t, http.MethodPost, "/login", `{"login":"ana","password":"nope-nope"}`)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d", last)
	}
}

func TestLoginThrottleIgnoresRotatedForwardedFor(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	var last int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(fmt.Sprintf(`{"login":"user%d","password":"nope-nope"}`, i)))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d", last)
	}
}

func TestGamesRoutes(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.GamesFile: testGames})

	rr := env.do(t, http.MethodGet, "/games", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var games []domain.Game
	decodeBodyInto(t, rr, &games)
	if len(games) != 2 {
		t.Fatalf("games = %d", len(games))
	}

	rr = env.do(t, http.MethodGet, "/games/11", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var g domain.Game
	decodeBodyInto(t, rr, &g)
	if g.Title != "Hades" || len(g.Platforms) != 2 {
		t.Fatalf("unexpected game: %#v", g)
	}

	for _, path := range []string{"/games/99", "/games/abc"} {
		if rr := env.do(t, http.MethodGet, path, ""); rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestGameLogsRoutes(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		jsonfile.UsersFile: testUsers,
		jsonfile.GamesFile: testGames,
	})

	rr := env.do(t, http.MethodGet, "/gamelogs/1", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty list = %d %q", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/gamelogs/1", `{"id":10,"status":"playing","rating":8.5,"startDate":"2024-01-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rr.Code, rr.Body.String())
	}

	if rr := env.do(t, http.MethodPost, "/gamelogs/1", `{"id":10,"status":"played"}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/gamelogs/1", `{"id":99,"status":"played"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown game status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/gamelogs/1", `{"id":11,"status":"finished"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodPatch, "/gamelogs/1/10", `{"status":"played","finishDate":"2024-02-01"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rr.Code, rr.Body.String())
	}
	var l domain.GameLog
	decodeBodyInto(t, rr, &l)
	if l.Status != domain.GameLogPlayed || l.FinishDate != "2024-02-01" || l.Rating == nil || *l.Rating != 8.5 {
		t.Fatalf("unexpected log: %#v", l)
	}

	if rr := env.do(t, http.MethodPatch, "/gamelogs/1/10", `{"finishDate":"2023-12-31"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("finish before start status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/gamelogs", "")
	var all map[string][]domain.GameLog
	decodeBodyInto(t, rr, &all)
	if len(all["1"]) != 1 {
		t.Fatalf("unexpected logs: %#v", all)
	}

	if rr := env.do(t, http.MethodDelete, "/gamelogs/1/10", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/gamelogs/1/10", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rr.Code)
	}
}

func TestReviewsRoutes(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		jsonfile.UsersFile:    testUsers,
		jsonfile.GamesFile:    testGames,
		jsonfile.GameLogsFile: `{"2": [{"id": 10, "status": "played", "rating": 9}]}`,
	})

	rr := env.do(t, http.MethodGet, "/reviews/game/10", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("empty game reviews = %d %q", rr.Code, rr.Body.String())
	}
	if rr := env.do(t, http.MethodGet, "/reviews/game/99", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown game status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/reviews/user/99", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown user status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/reviews/user/2", `{"gameID":10,"text":"Great loop.","public":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPost, "/reviews/user/1", `{"gameID":10,"text":"Private notes","public":false}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create private status = %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/reviews/user/2", `{"gameID":10,"text":"again","public":true}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate review status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/reviews/game/10", "")
	var got []domain.GameReview
	decodeBodyInto(t, rr, &got)
	if len(got) != 1 {
		t.Fatalf("expected only the public review, got %#v", got)
	}
	if got[0].UserID != 2 || got[0].Username != "bo" || got[0].Status != domain.GameLogPlayed || got[0].Rating == nil || *got[0].Rating != 9 {
		t.Fatalf("unexpected enrichment: %#v", got[0])
	}

	rr = env.do(t, http.MethodGet, "/reviews/user/1", "")
	var mine []domain.Review
	decodeBodyInto(t, rr, &mine)
	if len(mine) != 1 || mine[0].Public {
		t.Fatalf("unexpected user reviews: %#v", mine)
	}
}

func TestUnknownRouteAndStorageFailure(t *testing.T) {
	env := newTestEnv(t, map[string]string{jsonfile.UsersFile: testUsers})

	rr := env.do(t, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", rr.Code)
	}
	if got := errorCode(t, rr); got != "not_found" {
		t.Fatalf("code = %q", got)
	}

	// A corrupt collection is a server fault, not a missing resource.
	if err := os.WriteFile(filepath.Join(env.dir, jsonfile.UsersFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt users: %v", err)
	}
	rr = env.do(t, http.MethodGet, "/users", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("corrupt store status = %d", rr.Code)
	}
}

func TestHealthzReportsDatabase(t *testing.T) {
	h := NewRouter(RouterOpts{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		DBPing: func(context.Context) error { return errors.New("down") },
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}

	rr = env.do(t, http.MethodGet, "/games", "")
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}
}
