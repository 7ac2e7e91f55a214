package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/home"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged smokes",
		Long: `List logged smokes, most recent first, with the gap since the
previous one. --from and --to restrict the listing to the half-open
window [from, to).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, from, to)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "lower bound, inclusive (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "upper bound, exclusive (RFC 3339)")

	return cmd
}

// parseBound parses an optional RFC 3339 window bound flag.
func parseBound(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --"+name+" value", err)
	}
	return &parsed, nil
}

func runList(opts *RootOptions, cmd *cobra.Command, from, to string) error {
	fromAt, err := parseBound("from", from)
	if err != nil {
		return err
	}
	toAt, err := parseBound("to", to)
	if err != nil {
		return err
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

	st.Send(home.FetchSmokes{From: fromAt, To: toAt})

	final, err := awaitState(ctx, updates, func(s home.State) bool {
		return s.Error != nil || s.Smokes != nil
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "waiting for result", err)
	}

	if final.Error != nil {
		return NewExitError(ExitFailure, "loading smokes failed")
	}

	if opts.Format == "json" {
		return f.JSON(final.Smokes)
	}

	if len(final.Smokes) == 0 {
		f.Textf("No smokes logged.")
		return nil
	}
	for _, ev := range final.Smokes {
		gap := ""
		if ev.GapHours > 0 || ev.GapMinutes > 0 {
			gap = fmt.Sprintf("  +%dh%02dm", ev.GapHours, ev.GapMinutes)
		}
		note := ""
		if ev.Note != "" {
			note = "  " + ev.Note
		}
		f.Textf("%s  %s%s%s", ev.OccurredAt.In(rt.loc).Format("2006-01-02 15:04"), ev.ID, gap, note)
	}
	f.Textf("%d smoke(s)", len(final.Smokes))
	return nil
}
