package client

import (
	"context"
	"net/http"

	"playrates/internal/domain"
)

type (
	User            = domain.User
	UserSummary     = domain.UserSummary
	FriendsOverview = domain.FriendsOverview
	Game            = domain.Game
	GameLog         = domain.GameLog
	Review          = domain.Review
	GameReview      = domain.GameReview
	LookupField     = domain.LookupField
)

const (
	ByID       = domain.LookupByID
	ByEmail    = domain.LookupByEmail
	ByUsername = domain.LookupByUsername
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.get(ctx, "/users", &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, field LookupField, value string) (User, error) {
	var out User
	err := c.get(ctx, "/users/"+string(field)+"/"+escape(value), &out)
	return out, err
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Picture  string `json:"picture,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

func (c *Client) CreateUser(ctx context.Context, req SignupRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/users", req, &out)
	return out, err
}

// ProfileUpdate is a partial edit; nil fields are left unchanged.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Picture  *string `json:"picture,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Online   *bool   `json:"online,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, id int, upd ProfileUpdate) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPatch, "/users/"+itoa(id), upd, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, login, password string) (User, error) {
	var out User
	req := struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}{login, password}
	err := c.do(ctx, http.MethodPost, "/login", req, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodPost, "/logout", actorBody{ID: userID}, nil)
}

func (c *Client) ListGames(ctx context.Context) ([]Game, error) {
	var out []Game
	err := c.get(ctx, "/games", &out)
	return out, err
}

func (c *Client) GetGame(ctx context.Context, id int) (Game, error) {
	var out Game
	err := c.get(ctx, "/games/"+itoa(id), &out)
	return out, err
}

func (c *Client) ListGameLogs(ctx context.Context) (map[int][]GameLog, error) {
	var out map[int][]GameLog
	err := c.get(ctx, "/gamelogs", &out)
	return out, err
}

func (c *Client) UserGameLogs(ctx context.Context, userID int) ([]GameLog, error) {
	var out []GameLog
	err := c.get(ctx, "/gamelogs/"+itoa(userID), &out)
	return out, err
}

func (c *Client) CreateGameLog(ctx context.Context, userID int, log GameLog) (GameLog, error) {
	var out GameLog
	err := c.do(ctx, http.MethodPost, "/gamelogs/"+itoa(userID), log, &out)
	return out, err
}

// GameLogPatch is a partial edit of a game log; nil fields are left unchanged.
type GameLogPatch struct {
	Status                *domain.GameLogStatus `json:"status,omitempty"`
	Rating                *float64              `json:"rating,omitempty"`
	HoursPlayed           *float64              `json:"hoursPlayed,omitempty"`
	HoursToBeat           *float64              `json:"hoursToBeat,omitempty"`
	StartDate             *string               `json:"startDate,omitempty"`
	FinishDate            *string               `json:"finishDate,omitempty"`
	Platform              *string               `json:"platform,omitempty"`
	AchievementsTotal     *int                  `json:"achievementsTotal,omitempty"`
	AchievementsCompleted *int                  `json:"achievementsCompleted,omitempty"`
}

func (c *Client) UpdateGameLog(ctx context.Context, userID, gameID int, patch GameLogPatch) (GameLog, error) {
	var out GameLog
	err := c.do(ctx, http.MethodPatch, "/gamelogs/"+itoa(userID)+"/"+itoa(gameID), patch, &out)
	return out, err
}

func (c *Client) DeleteGameLog(ctx context.Context, userID, gameID int) error {
	return c.do(ctx, http.MethodDelete, "/gamelogs/"+itoa(userID)+"/"+itoa(gameID), nil, nil)
}

func (c *Client) ListReviews(ctx context.Context) (map[int][]Review, error) {
	var out map[int][]Review
	err := c.get(ctx, "/reviews", &out)
	return out, err
}

func (c *Client) UserReviews(ctx context.Context, userID int) ([]Review, error) {
	var out []Review
	err := c.get(ctx, "/reviews/user/"+itoa(userID), &out)
	return out, err
}

func (c *Client) GameReviews(ctx context.Context, gameID int) ([]GameReview, error) {
	var out []GameReview
	err := c.get(ctx, "/reviews/game/"+itoa(gameID), &out)
	return out, err
}

type ReviewRequest struct {
	GameID int    `json:"gameID"`
	Text   string `json:"text"`
	Public bool   `json:"public"`
}

func (c *Client) CreateReview(ctx context.Context, userID int, req ReviewRequest) (Review, error) {
	var out Review
	err := c.do(ctx, http.MethodPost, "/reviews/user/"+itoa(userID), req, &out)
	return out, err
}

func (c *Client) Friends(ctx context.Context, userID int) (FriendsOverview, error) {
	var out FriendsOverview
	err := c.get(ctx, "/friends/"+itoa(userID), &out)
	return out, err
}

type actorBody struct {
	ID int `json:"id"`
}

// friendAction sends actorID in the body and peerID in the path, returning the
// server's confirmation message.
func (c *Client) friendAction(ctx context.Context, action string, actorID, peerID int) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPatch, "/friends/"+action+"/"+itoa(peerID), actorBody{ID: actorID}, &out)
	return out.Message, err
}

func (c *Client) SendFriendRequest(ctx context.Context, fromID, toID int) (string, error) {
	return c.friendAction(ctx, "add", fromID, toID)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, accepterID, senderID int) (string, error) {
	return c.friendAction(ctx, "accept", accepterID, senderID)
}

func (c *Client) DeclineFriendRequest(ctx context.Context, declinerID, senderID int) (string, error) {
	return c.friendAction(ctx, "decline", declinerID, senderID)
}

func (c *Client) CancelFriendRequest(ctx context.Context, senderID, addresseeID int) (string, error) {
	return c.friendAction(ctx, "cancel", senderID, addresseeID)
}

func (c *Client) RemoveFriend(ctx context.Context, userID, friendID int) (string, error) {
	return c.friendAction(ctx, "remove", userID, friendID)
}
