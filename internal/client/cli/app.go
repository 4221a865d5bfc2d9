// Package cli implements the terminal screens of ShelfTrack: a small REPL
// whose commands map one-to-one onto the application services.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"shelftrack/internal/client/cache"
	"shelftrack/internal/client/config"
	"shelftrack/internal/client/remote"
	"shelftrack/internal/client/services"
	"shelftrack/internal/client/session"
	"shelftrack/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config    *config.Config
	auth      *services.AuthService
	books     *services.BookService
	bootstrap *services.Bootstrap

	sess   *session.Session
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := cache.InitDatabase(ctx, cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}

	repo := cache.NewSQLiteRepository(db)
	snaps := cache.NewSnapshots(repo)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	client := remote.NewHTTPClient(cfg.ServerURL, snaps, logger)

	books := services.NewBookService(client, logger)
	auth := services.NewAuthService(client, client, books, snaps, logger)
	boot := services.NewBootstrap(client, snaps, logger)

	return &App{
		config:    cfg,
		auth:      auth,
		books:     books,
		bootstrap: boot,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run resolves the initial screen via the session bootstrap and hands
// control to the REPL.
func (a *App) Run(ctx context.Context) {
	route, sess := a.bootstrap.Run(ctx)
	a.sess = sess

	if route == services.RouteDashboard {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.sess.Email)
	} else {
		fmt.Fprintln(a.out, "Welcome to ShelfTrack. Type 'help' for commands.")
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.sess.Valid()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.sess.Email
	}
	return "guest"
}
