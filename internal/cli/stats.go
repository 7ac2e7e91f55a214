package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/smokelog/internal/stats"
	"github.com/roach88/smokelog/internal/statsview"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var year, month, day int
	var period string

	now := time.Now()

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show time-bucketed smoking statistics",
		Long: `Aggregate logged smokes for a day, week, month or year window into
per-day, per-weekday, per-week-of-month, per-month and per-hour histograms,
plus rolling totals.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd, year, month, day, period)
		},
	}

	cmd.Flags().IntVar(&year, "year", now.Year(), "query year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "query month (1-12)")
	cmd.Flags().IntVar(&day, "day", 0, "query day of month (required for day/week periods)")
	cmd.Flags().StringVar(&period, "period", "month", "window period (day|week|month|year)")

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command, year, month, day int, periodName string) error {
	period, err := stats.ParsePeriod(periodName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --period", err)
	}
	if month < 1 || month > 12 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --month %d: must be 1-12", month))
	}
	if day == 0 && (period == stats.PeriodDay || period == stats.PeriodWeek) {
		return NewExitError(ExitCommandError, "--day is required for day and week periods")
	}

	rt, err := opts.openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()
	f := opts.formatter(cmd)

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	st := statsview.NewStore(rt.store, statsview.SystemClock{}, rt.loc, statsview.Navigator{}, rt.logger)
	updates := st.Updates()
	go st.Run(ctx)
	defer st.Stop()

	st.Send(statsview.FetchStats{
		Year:   year,
		Month:  time.Month(month),
		Day:    day,
		Period: period,
	})

	final, err := awaitState(ctx, updates, func(s statsview.State) bool {
		return s.Error || s.Stats != nil
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "waiting for result", err)
	}

	if final.Error {
		return NewExitError(ExitFailure, "computing statistics failed")
	}

	if opts.Format == "json" {
		return f.JSON(final.Stats)
	}
	printStats(f, *final.Stats, year, time.Month(month), day, period)
	return nil
}

// printStats renders the aggregate as aligned text histograms.
func printStats(f *OutputFormatter, s stats.Stats, year int, month time.Month, day int, period stats.Period) {
	f.Textf("Stats for %s %d (%s window)", month, year, period)
	f.Textf("")
	f.Textf("Total:         %d", s.TotalMonth)
	f.Textf("Rolling week:  %d", s.TotalWeek)
	if day != 0 {
		f.Textf("Day %-2d total:  %d", day, s.TotalDay)
	}
	f.Textf("Daily average: %.2f", s.DailyAverage)

	f.Textf("")
	f.Textf("By weekday:")
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		f.Textf("  %s  %d", wd, s.Weekly[wd])
	}

	f.Textf("")
	f.Textf("By week of month:")
	for w := 1; w <= 5; w++ {
		key := fmt.Sprintf("W%d", w)
		f.Textf("  %s  %d", key, s.Monthly[key])
	}

	f.Textf("")
	f.Textf("By month:")
	for m := time.January; m <= time.December; m++ {
		f.Textf("  %s  %d", m.String()[:3], s.Yearly[m.String()[:3]])
	}

	f.Textf("")
	f.Textf("By day of month:")
	days := make([]int, 0, len(s.Daily))
	for d := range s.Daily {
		days = append(days, d)
	}
	sort.Ints(days)
	for _, d := range days {
		f.Textf("  %2d  %d", d, s.Daily[d])
	}

	f.Textf("")
	f.Textf("By hour:")
	for h := 0; h < 24; h++ {
		key := fmt.Sprintf("%02d:00", h)
		f.Textf("  %s  %d", key, s.Hourly[key])
	}
}
