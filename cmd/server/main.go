package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playrates/internal/auth"
	"playrates/internal/config"
	"playrates/internal/domain"
	"playrates/internal/httpapi"
	"playrates/internal/service"
	"playrates/internal/store/jsonfile"
	"playrates/internal/store/postgres"

	"github.com/lmittmann/tint"
)

// stores is the set of backends a run is wired to; both the JSON files and
// PostgreSQL satisfy it.
type stores struct {
	users    service.FriendUsersStore
	auth     service.UsersStore
	games    service.GamesStore
	gameLogs service.GameLogsStore
	reviews  service.ReviewsStore
	ping     func(context.Context) error
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(logger, cfg); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred cleanup happens before main
// exits.
func run(logger *slog.Logger, cfg config.Config) error {
	ctx := context.Background()

	st, err := openStores(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.close()

	games, err := service.NewGamesService(ctx, st.games)
	if err != nil {
		return err
	}
	logger.Info("games catalog loaded", "games", games.Len())

	creds := auth.NewArgon2Verifier(cfg.LegacyPasswords)

	apiRouter := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:      logger,
		IsProd:      cfg.IsProd(),
		DBPing:      st.ping,
		Auth:        &service.AuthService{Users: st.auth, Credentials: creds, Logger: logger},
		Users:       &service.UsersService{Users: st.auth, Credentials: creds},
		Friends:     &service.FriendsService{Users: st.users},
		Games:       games,
		GameLogs:    &service.GameLogsService{Logs: st.gameLogs, Users: st.users, Games: games},
		Reviews:     &service.ReviewsService{Reviews: st.reviews, Users: st.users, Logs: st.gameLogs, Games: games, Now: time.Now},
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func openStores(ctx context.Context, logger *slog.Logger, cfg config.Config) (stores, error) {
	if cfg.DBDSN == "" {
		js, err := jsonfile.Open(cfg.DataDir)
		if err != nil {
			return stores{}, err
		}
		logger.Info("using json store", "dir", cfg.DataDir)
		return stores{
			users:    js.Users,
			auth:     js.Users,
			games:    js.Games,
			gameLogs: js.GameLogs,
			reviews:  js.Reviews,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.Open(ctx, cfg.DBDSN)
	if err != nil {
		return stores{}, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return stores{}, err
	}

	pg := postgres.NewStore(pool)
	if err := seedGames(ctx, logger, pg.Games, cfg.DataDir); err != nil {
		pool.Close()
		return stores{}, err
	}

	logger.Info("using postgres store")
	return stores{
		users:    pg.Users,
		auth:     pg.Users,
		games:    pg.Games,
		gameLogs: pg.GameLogs,
		reviews:  pg.Reviews,
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

// seedGames imports games.json from dataDir into an empty games table.
func seedGames(ctx context.Context, logger *slog.Logger, games *postgres.GamesStore, dataDir string) error {
	existing, err := games.ListGames(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seed, err := jsonfile.NewCollection[[]domain.Game](dataDir, jsonfile.GamesFile).Load(ctx)
	if err != nil {
		if errors.Is(err, jsonfile.ErrParse) {
			logger.Warn("games seed unavailable", "dir", dataDir, "err", err)
			return nil
		}
		return fmt.Errorf("read games seed: %w", err)
	}
	if err := games.ImportGames(ctx, seed); err != nil {
		return err
	}
	logger.Info("games seeded", "games", len(seed))
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: time.Kitchen}))
}
