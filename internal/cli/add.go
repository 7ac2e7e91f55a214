package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/home"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var at string
	var note string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a smoke",
		Long: `Log a smoke at the current time, or at an explicit instant with --at.

Requires a configured user (see the "user" block of the config file);
anonymous invocations are rejected without touching storage.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, at, note)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "occurrence time (RFC 3339, default now)")
	cmd.Flags().StringVar(&note, "note", "", "free-text note attached to the event")

	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, at, note string) error {
	occurredAt := time.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --at value", err)
		}
		occurredAt = parsed
	}

	rt, err := opts.openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	f := opts.formatter(cmd)

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	st := home.NewStore(rt.store, rt.sessions, home.Navigator{}, rt.logger)
	updates := st.Updates()
	go st.Run(ctx)
	defer st.Stop()

	st.Send(home.AddSmoke{At: occurredAt, Note: note})

	final, err := awaitState(ctx, updates, func(s home.State) bool {
		return s.Error != nil || s.LastAdded != nil
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "waiting for result", err)
	}

	if final.Error != nil {
		if *final.Error == home.ErrorNotLoggedIn {
			return NewExitError(ExitFailure, "not logged in: add a user block to the config file")
		}
		return NewExitError(ExitFailure, "logging the smoke failed")
	}

	added := *final.LastAdded
	if opts.Format == "json" {
		return f.JSON(added)
	}
	f.Textf("Logged smoke %s at %s", added.ID, added.OccurredAt.In(rt.loc).Format(time.RFC3339))
	return nil
}
