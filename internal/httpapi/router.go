package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"playrates/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth     *service.AuthService
	Users    *service.UsersService
	Friends  *service.FriendsService
	Games    *service.GamesService
	GameLogs *service.GameLogsService
	Reviews  *service.ReviewsService

	CORSOrigins []string

	// TrustProxy makes the login throttle key on X-Forwarded-For. Enable it
	// only behind a reverse proxy that overwrites the header.
	TrustProxy bool
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		authSvc:      opts.Auth,
		usersSvc:     opts.Users,
		friendsSvc:   opts.Friends,
		gamesSvc:     opts.Games,
		gameLogsSvc:  opts.GameLogs,
		reviewsSvc:   opts.Reviews,
		loginLimiter: newLoginLimiter(),
		trustProxy:   opts.TrustProxy,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.handleHealthz)

	if api.usersSvc != nil {
		mux.HandleFunc("GET /users", api.handleUsersList)
		mux.HandleFunc("GET /users/{type}/{value}", api.handleUsersFind)
		mux.HandleFunc("PATCH /users/{id}", api.handleUsersUpdate)
	}
	if api.authSvc != nil {
		mux.HandleFunc("POST /users", api.handleUsersCreate)
		mux.HandleFunc("POST /login", api.handleAuthLogin)
		mux.HandleFunc("POST /logout", api.handleAuthLogout)
	}

	if api.gamesSvc != nil {
		mux.HandleFunc("GET /games", api.handleGamesList)
		mux.HandleFunc("GET /games/{id}", api.handleGamesGet)
	}

	if api.gameLogsSvc != nil {
		mux.HandleFunc("GET /gamelogs", api.handleGameLogsList)
		mux.HandleFunc("GET /gamelogs/{userID}", api.handleGameLogsForUser)
		mux.HandleFunc("POST /gamelogs/{userID}", api.handleGameLogsCreate)
		mux.HandleFunc("PATCH /gamelogs/{userID}/{gameID}", api.handleGameLogsUpdate)
		mux.HandleFunc("DELETE /gamelogs/{userID}/{gameID}", api.handleGameLogsDelete)
	}

	if api.reviewsSvc != nil {
		mux.HandleFunc("GET /reviews", api.handleReviewsList)
		mux.HandleFunc("GET /reviews/user/{userID}", api.handleReviewsForUser)
		mux.HandleFunc("GET /reviews/game/{gameID}", api.handleReviewsForGame)
		mux.HandleFunc("POST /reviews/user/{userID}", api.handleReviewsCreate)
	}

	if api.friendsSvc != nil {
		mux.HandleFunc("GET /friends/{userID}", api.handleFriendsOverview)
		mux.HandleFunc("PATCH /friends/add/{id}", api.handleFriendsAdd)
		mux.HandleFunc("PATCH /friends/accept/{id}", api.handleFriendsAccept)
		mux.HandleFunc("PATCH /friends/decline/{id}", api.handleFriendsDecline)
		mux.HandleFunc("PATCH /friends/cancel/{id}", api.handleFriendsCancel)
		mux.HandleFunc("PATCH /friends/remove/{id}", api.handleFriendsRemove)
	}

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handler only resolves the pattern; ServeHTTP is what fills in
		// r.PathValue for the matched route.
		if _, pattern := mux.Handler(r); pattern == "" {
			handleNotFound(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = CORS(opts.CORSOrigins)(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc     *service.AuthService
	usersSvc    *service.UsersService
	friendsSvc  *service.FriendsService
	gamesSvc    *service.GamesService
	gameLogsSvc *service.GameLogsService
	reviewsSvc  *service.ReviewsService

	loginLimiter *loginLimiter
	trustProxy   bool
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
