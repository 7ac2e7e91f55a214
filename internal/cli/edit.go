package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/home"
)

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:           "edit <id>",
		Short:         "Move a logged smoke to a new time",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, cmd, args[0], at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "new occurrence time (RFC 3339)")
	cmd.MarkFlagRequired("at")

	return cmd
}

func runEdit(opts *RootOptions, cmd *cobra.Command, id, at string) error {
	occurredAt, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --at value", err)
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

	st.Send(home.EditSmoke{ID: id, At: occurredAt})

	final, err := awaitState(ctx, updates, func(s home.State) bool {
		return s.Error != nil || s.Edited
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "waiting for result", err)
	}

	if final.Error != nil {
		if *final.Error == home.ErrorNotLoggedIn {
			return NewExitError(ExitFailure, "not logged in: add a user block to the config file")
		}
		return NewExitError(ExitFailure, "editing the smoke failed")
	}

	if opts.Format == "json" {
		return f.JSON(map[string]string{"id": id})
	}
	f.Textf("Moved smoke %s to %s", id, occurredAt.In(rt.loc).Format(time.RFC3339))
	return nil
}
