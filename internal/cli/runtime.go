package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/config"
	"github.com/roach88/smokelog/internal/session"
	"github.com/roach88/smokelog/internal/store"
)

// commandTimeout bounds one CLI invocation end to end.
const commandTimeout = 30 * time.Second

// runtime bundles the collaborators a command wires into its feature store.
type runtime struct {
	cfg      config.Config
	store    *store.Store
	sessions session.Provider
	logger   *slog.Logger
	loc      *time.Location
}

// openRuntime loads config, opens storage and builds the shared
// collaborators. Callers must Close the returned runtime.
func (o *RootOptions) openRuntime() (*runtime, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	dbPath := cfg.DBPath
	if o.DBPath != "" {
		dbPath = o.DBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "creating database directory", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "resolving timezone", err)
	}

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &runtime{
		cfg:      cfg,
		store:    st,
		sessions: sessionProvider(cfg),
		logger:   logger,
		loc:      loc,
	}, nil
}

func (r *runtime) Close() {
	if r.store != nil {
		r.store.Close()
	}
}

// sessionProvider maps the config user block to a session: a configured
// user is logged in, an absent block is anonymous.
func sessionProvider(cfg config.Config) session.Provider {
	if cfg.User == nil {
		return session.StaticProvider{Session: session.Anonymous{}}
	}
	return session.StaticProvider{Session: session.LoggedIn{User: session.User{
		ID:          cfg.User.Email,
		Email:       cfg.User.Email,
		DisplayName: cfg.User.DisplayName,
	}}}
}

// formatter builds the output formatter for one command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// awaitState waits until the state stream produces a snapshot the command
// considers terminal.
func awaitState[S any](ctx context.Context, updates <-chan S, terminal func(S) bool) (S, error) {
	for {
		select {
		case <-ctx.Done():
			var zero S
			return zero, ctx.Err()
		case s := <-updates:
			if terminal(s) {
				return s, nil
			}
		}
	}
}
