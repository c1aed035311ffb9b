package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/urchin/internal/client/client"
	"github.com/dmitrijs2005/urchin/internal/client/config"
	"github.com/dmitrijs2005/urchin/internal/client/services"
	"github.com/dmitrijs2005/urchin/internal/client/store"
	"github.com/dmitrijs2005/urchin/internal/client/transport"
	"github.com/dmitrijs2005/urchin/internal/logging"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	dataService services.DataService
	log         logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local store and builds the services from cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})

	endpoint, err := transport.ParseEndpoint(cfg.Server)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "error", err)
		return nil, err
	}

	apiClient := client.New(st, log,
		transport.WithCurrent(endpoint),
		transport.WithWorkers(cfg.Workers),
		transport.WithTimeout(cfg.RequestTimeout),
	)

	return &App{
		config:      cfg,
		authService: services.NewAuthService(apiClient),
		dataService: services.NewDataService(apiClient),
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits, then releases the client.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			a.log.Error(ctx, "close client", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to urchin (type 'help' for commands)")
	if !a.isLoggedIn(ctx) {
		if err := a.Login(ctx); err != nil {
			fmt.Fprintln(a.out, "Login failed:", err)
		}
	}
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	u, err := a.authService.CurrentUser(ctx)
	return err == nil && u != nil
}

func (a *App) getStatus(ctx context.Context) string {
	info, err := a.authService.SessionInfo(ctx)
	if err != nil {
		return ""
	}
	s := string(info.Server)
	if info.User != nil && info.User.Username != "" {
		s = info.User.Username + "@" + s
	}
	return fmt.Sprintf("(%s)", s)
}
