package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/home"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a logged smoke",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, cmd *cobra.Command, id string) error {
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

	st.Send(home.DeleteSmoke{ID: id})

	final, err := awaitState(ctx, updates, func(s home.State) bool {
		return s.Error != nil || s.Deleted
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "waiting for result", err)
	}

	if final.Error != nil {
		if *final.Error == home.ErrorNotLoggedIn {
			return NewExitError(ExitFailure, "not logged in: add a user block to the config file")
		}
		return NewExitError(ExitFailure, "deleting the smoke failed")
	}

	if opts.Format == "json" {
		return f.JSON(map[string]string{"id": id})
	}
	f.Textf("Deleted smoke %s", id)
	return nil
}
