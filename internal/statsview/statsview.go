// Package statsview implements the statistics screen feature: fetching a
// time window of events and aggregating them into histograms.
//
// Fetches use the latest-wins discipline: a newer FetchStats supersedes the
// in-flight one, so a stale result can never overwrite a fresher query.
package statsview

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/roach88/smokelog/internal/mvi"
	"github.com/roach88/smokelog/internal/smoke"
	"github.com/roach88/smokelog/internal/stats"
)

// Intent is the closed union of actions the statistics screen can trigger.
type Intent interface {
	isStatsIntent()
}

// FetchStats aggregates the window selected by (Year, Month, Day, Period).
// Day zero means no day was supplied (month/year scoped queries).
type FetchStats struct {
	Year   int
	Month  time.Month
	Day    int
	Period stats.Period
}

// GoToHome navigates back to the tracking screen.
type GoToHome struct{}

func (FetchStats) isStatsIntent() {}
func (GoToHome) isStatsIntent()   {}

// Result is the closed union of outcomes for the statistics screen.
type Result interface {
	isStatsResult()
}

// Loading signals that a fetch is in flight.
type Loading struct{}

// FetchSuccess carries the computed aggregate.
type FetchSuccess struct {
	Stats stats.Stats
}

// Failure carries a recoverable error outcome.
type Failure struct{}

// NavigateToHome asks the view to present the tracking screen.
type NavigateToHome struct{}

func (Loading) isStatsResult()        {}
func (FetchSuccess) isStatsResult()   {}
func (Failure) isStatsResult()        {}
func (NavigateToHome) isStatsResult() {}

// State is the immutable snapshot rendered by the statistics view.
// Stats is nil until the first successful fetch.
type State struct {
	DisplayLoading bool
	Stats          *stats.Stats
	Error          bool
}

// NewState returns the initial screen state.
func NewState() State {
	return State{}
}

// Repository is the slice of event storage the statistics feature consumes.
type Repository interface {
	FetchSmokes(ctx context.Context, start, end *time.Time) ([]smoke.Smoke, error)
}

// Clock supplies the current instant, injected so aggregation is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// ProcessHolder maps statistics intents to result streams.
type ProcessHolder struct {
	repo   Repository
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
}

// NewProcessHolder creates the statistics process holder.
// The location is used both for the window push-down and for bucketing; a
// single zone keeps the two consistent.
func NewProcessHolder(repo Repository, clock Clock, loc *time.Location, logger *slog.Logger) *ProcessHolder {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ProcessHolder{repo: repo, clock: clock, loc: loc, logger: logger}
}

// ProcessIntent returns the cold result stream for one intent.
//
// FetchStats pushes the half-open window down to storage so only the
// relevant slice is loaded, then aggregates it. GoToHome is pure
// navigation: one terminal result, no Loading.
func (h *ProcessHolder) ProcessIntent(ctx context.Context, intent Intent) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		switch it := intent.(type) {
		case FetchStats:
			if !yield(Loading{}) {
				return
			}
			start, end := stats.Window(it.Year, it.Month, it.Day, it.Period, h.loc)
			events, err := h.repo.FetchSmokes(ctx, &start, &end)
			if err != nil {
				h.logger.Error("fetch stats window failed",
					"year", it.Year,
					"month", int(it.Month),
					"day", it.Day,
					"period", it.Period.String(),
					"error", err,
				)
				yield(Failure{})
				return
			}
			computed := stats.Compute(events, it.Year, it.Month, it.Day, it.Period, h.clock.Now(), h.loc)
			yield(FetchSuccess{Stats: computed})

		case GoToHome:
			yield(NavigateToHome{})
		}
	}
}

// Navigator is the fire-and-forget navigation callback set for the
// statistics reducer. Nil callbacks are ignored.
type Navigator struct {
	ToHome func()
}

// Reduce builds the reducer for the statistics screen.
func Reduce(nav Navigator) mvi.Reducer[State, Result] {
	return func(prev State, result Result) State {
		switch r := result.(type) {
		case Loading:
			next := prev
			next.DisplayLoading = true
			next.Error = false
			return next

		case FetchSuccess:
			computed := r.Stats
			return State{Stats: &computed}

		case Failure:
			next := prev
			next.DisplayLoading = false
			next.Error = true
			return next

		case NavigateToHome:
			if nav.ToHome != nil {
				nav.ToHome()
			}
			return prev

		default:
			// Unreachable for a well-formed Result union.
			return prev
		}
	}
}

// fetchKey is the merge key grouping all FetchStats intents: any newer fetch
// supersedes the in-flight one.
const fetchKey = "fetch"

// NewStore wires the statistics feature into an MVI store with the
// latest-wins discipline for fetches. Navigation intents carry no merge key
// and are never cancelled.
func NewStore(repo Repository, clock Clock, loc *time.Location, nav Navigator, logger *slog.Logger) *mvi.Store[Intent, Result, State] {
	holder := NewProcessHolder(repo, clock, loc, logger)
	st := mvi.NewStore[Intent, Result, State](NewState(), holder, Reduce(nav), logger)
	st.WithLatestWins(func(intent Intent) (string, bool) {
		if _, ok := intent.(FetchStats); ok {
			return fetchKey, true
		}
		return "", false
	})
	return st
}
