package statsview

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smokelog/internal/smoke"
	"github.com/roach88/smokelog/internal/stats"
	"github.com/roach88/smokelog/internal/testutil"
)

// capturingRepo records the window bounds pushed down by the holder.
type capturingRepo struct {
	start, end *time.Time
	smokes     []smoke.Smoke
	err        error
}

func (r *capturingRepo) FetchSmokes(ctx context.Context, start, end *time.Time) ([]smoke.Smoke, error) {
	r.start, r.end = start, end
	if r.err != nil {
		return nil, r.err
	}
	return r.smokes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func collect(t *testing.T, h *ProcessHolder, intent Intent) []Result {
	t.Helper()
	var out []Result
	for r := range h.ProcessIntent(context.Background(), intent) {
		out = append(out, r)
	}
	return out
}

func TestProcessIntent_FetchPushesWindowDown(t *testing.T) {
	repo := &capturingRepo{}
	clock := testutil.NewFixedClock(time.Date(2023, time.March, 30, 9, 0, 0, 0, time.UTC))
	h := NewProcessHolder(repo, clock, time.UTC, testLogger())

	results := collect(t, h, FetchStats{Year: 2023, Month: time.March, Period: stats.PeriodMonth})

	require.NotNil(t, repo.start)
	require.NotNil(t, repo.end)
	assert.Equal(t, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), *repo.start)
	assert.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), *repo.end)

	require.Len(t, results, 2)
	assert.IsType(t, Loading{}, results[0])
	assert.IsType(t, FetchSuccess{}, results[1])
}

func TestProcessIntent_FetchAggregates(t *testing.T) {
	repo := &capturingRepo{smokes: []smoke.Smoke{
		{ID: "a", OccurredAt: time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)},
		{ID: "b", OccurredAt: time.Date(2023, time.March, 15, 14, 0, 0, 0, time.UTC)},
	}}
	clock := testutil.NewFixedClock(time.Date(2023, time.March, 15, 18, 0, 0, 0, time.UTC))
	h := NewProcessHolder(repo, clock, time.UTC, testLogger())

	results := collect(t, h, FetchStats{Year: 2023, Month: time.March, Day: 15, Period: stats.PeriodDay})

	require.Len(t, results, 2)
	success, ok := results[1].(FetchSuccess)
	require.True(t, ok)
	assert.Equal(t, 2, success.Stats.TotalMonth)
	assert.Equal(t, 2, success.Stats.TotalDay)
	assert.Equal(t, 1, success.Stats.Hourly["12:00"])
	assert.Equal(t, 1, success.Stats.Hourly["14:00"])
}

func TestProcessIntent_FetchFailure(t *testing.T) {
	repo := &capturingRepo{err: errors.New("storage down")}
	clock := testutil.NewFixedClock(time.Date(2023, time.March, 15, 18, 0, 0, 0, time.UTC))
	h := NewProcessHolder(repo, clock, time.UTC, testLogger())

	results := collect(t, h, FetchStats{Year: 2023, Month: time.March, Period: stats.PeriodMonth})

	require.Len(t, results, 2)
	assert.IsType(t, Loading{}, results[0])
	assert.Equal(t, Failure{}, results[1])
}

func TestProcessIntent_GoToHome(t *testing.T) {
	h := NewProcessHolder(&capturingRepo{}, SystemClock{}, time.UTC, testLogger())
	assert.Equal(t, []Result{NavigateToHome{}}, collect(t, h, GoToHome{}))
}

func TestReduce(t *testing.T) {
	reduce := Reduce(Navigator{})

	t.Run("loading clears error", func(t *testing.T) {
		next := reduce(State{Error: true}, Loading{})
		assert.True(t, next.DisplayLoading)
		assert.False(t, next.Error)
	})

	t.Run("success replaces state", func(t *testing.T) {
		computed := stats.Stats{TotalMonth: 3}
		next := reduce(State{DisplayLoading: true, Error: true}, FetchSuccess{Stats: computed})
		assert.False(t, next.DisplayLoading)
		assert.False(t, next.Error)
		require.NotNil(t, next.Stats)
		assert.Equal(t, 3, next.Stats.TotalMonth)
	})

	t.Run("failure sets error", func(t *testing.T) {
		next := reduce(State{DisplayLoading: true}, Failure{})
		assert.False(t, next.DisplayLoading)
		assert.True(t, next.Error)
	})

	t.Run("navigation invokes callback", func(t *testing.T) {
		var visited bool
		reduce := Reduce(Navigator{ToHome: func() { visited = true }})
		reduce(State{}, NavigateToHome{})
		assert.True(t, visited)
	})
}

func TestStore_LatestFetchWins(t *testing.T) {
	// The first fetch parks in the repository until released; by then a
	// newer fetch has superseded it, so only the fresh aggregate may land.
	release := make(chan struct{})
	second := make(chan struct{})
	var calls atomic.Int32

	repo := &blockingRepo{
		fetch: func(ctx context.Context) ([]smoke.Smoke, error) {
			if calls.Add(1) == 1 {
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return []smoke.Smoke{{ID: "stale"}}, nil
			}
			close(second)
			return nil, nil
		},
	}

	clock := testutil.NewFixedClock(time.Date(2023, time.March, 15, 18, 0, 0, 0, time.UTC))
	st := NewStore(repo, clock, time.UTC, Navigator{}, testLogger())
	updates := st.Updates()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go st.Run(ctx)
	defer st.Stop()

	st.Send(FetchStats{Year: 2023, Month: time.March, Period: stats.PeriodMonth})
	st.Send(FetchStats{Year: 2023, Month: time.February, Period: stats.PeriodMonth})

	<-second
	close(release)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case state := <-updates:
			if state.Stats != nil {
				// The fresh (empty February) query has no events.
				assert.Equal(t, 0, state.Stats.TotalMonth)
				return
			}
		case <-deadline:
			t.Fatal("fresh fetch never produced a state")
		}
	}
}

type blockingRepo struct {
	fetch func(ctx context.Context) ([]smoke.Smoke, error)
}

func (r *blockingRepo) FetchSmokes(ctx context.Context, start, end *time.Time) ([]smoke.Smoke, error) {
	return r.fetch(ctx)
}
