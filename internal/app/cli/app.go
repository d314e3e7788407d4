// Package cli implements the command-line entry points of the service.
//
// Commands:
//
//	serve (alias run)   run migrations and serve the HTTP API
//	migrate             apply schema migrations and exit
//	create-user         create a user from the command line
//	help                print usage
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"starter_api/internal/domain/repository"
	"starter_api/internal/platform/config"
	"starter_api/internal/platform/database"
	"starter_api/internal/platform/logging"
)

type App struct {
	cfg          *config.Config
	log          logging.Logger
	out          io.Writer
	store        repository.Manager
	listener     net.Listener
	readPassword func() (string, error)
}

type Option func(*App)

// WithStore makes every command use store instead of opening one from config.
func WithStore(store repository.Manager) Option {
	return func(a *App) { a.store = store }
}

func WithLogger(log logging.Logger) Option {
	return func(a *App) { a.log = log }
}

func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithListener makes serve accept connections on l instead of the configured address.
func WithListener(l net.Listener) Option {
	return func(a *App) { a.listener = l }
}

func WithPasswordReader(fn func() (string, error)) Option {
	return func(a *App) { a.readPassword = fn }
}

func New(cfg *config.Config, opts ...Option) *App {
	a := &App{cfg: cfg, out: os.Stdout, readPassword: promptPassword}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run dispatches args to a command. No command means serve.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve", "run":
		err = a.serve(ctx, args)
	case "migrate":
		err = a.migrate(ctx, args)
	case "create-user":
		err = a.createUser(ctx, args)
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: server <command> [flags]

Commands:
  serve, run    Run the API server (-host, -port, -log-level)
  migrate       Apply database migrations
  create-user   Create user: create-user [-superuser] NAME [PASSWORD]
  help          Show this message`)
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) logger() logging.Logger {
	if a.log == nil {
		a.log = logging.New(os.Stderr, a.cfg.SlogLevel(), a.cfg.Env == config.EnvProduction)
	}
	return a.log
}

// openStore returns the configured store. Postgres schemas are migrated
// when migrate is set.
func (a *App) openStore(ctx context.Context, migrate bool) (repository.Manager, func(), error) {
	if a.store != nil {
		return a.store, func() {}, nil
	}
	if a.cfg.DBDriver == config.DriverMemory {
		a.logger().Warn(ctx, "using the in-memory store, data is lost on exit")
		return repository.NewMemoryManager(), func() {}, nil
	}

	db, err := database.Open(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	m := repository.NewPostgresManager(db)
	return m, func() { m.Close() }, nil
}

func (a *App) migrate(ctx context.Context, args []string) error {
	fs := a.flagSet("migrate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.store != nil || a.cfg.DBDriver == config.DriverMemory {
		fmt.Fprintln(a.out, "nothing to migrate")
		return nil
	}

	_, closeStore, err := a.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore()
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}
