package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Idempotent(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	// Reopening the same path must not fail or re-run migrations destructively.
	s2 := createTestStore(t)
	defer s2.Close()
}

func TestOpen_RecordsSchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	require.NoError(t, s.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestAddSmoke(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1")))
	ctx := context.Background()

	at := mustParse(t, "2023-03-15T12:00:00Z")
	ev, err := s.AddSmoke(ctx, at, "after lunch")
	require.NoError(t, err)

	assert.Equal(t, "id-1", ev.ID)
	assert.Equal(t, at, ev.OccurredAt)
	assert.Equal(t, "after lunch", ev.Note)

	n, err := s.CountSmokes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAddSmoke_NormalizesNote(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1")))
	ctx := context.Background()

	ev, err := s.AddSmoke(ctx, mustParse(t, "2023-03-15T12:00:00Z"), "  café  ")
	require.NoError(t, err)
	assert.Equal(t, "café", ev.Note)

	got, err := s.FetchSmokes(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "café", got[0].Note)
}

func TestAddSmoke_StoresUTC(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1")))
	ctx := context.Background()

	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2023, time.March, 15, 15, 0, 0, 0, loc)

	ev, err := s.AddSmoke(ctx, local, "")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	assert.True(t, ev.OccurredAt.Equal(local))
}

func TestEditSmoke(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1")))
	ctx := context.Background()

	_, err := s.AddSmoke(ctx, mustParse(t, "2023-03-15T12:00:00Z"), "")
	require.NoError(t, err)

	moved := mustParse(t, "2023-03-16T08:30:00Z")
	require.NoError(t, s.EditSmoke(ctx, "id-1", moved))

	got, err := s.FetchSmokes(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].OccurredAt.Equal(moved))
}

func TestEditSmoke_NotFound(t *testing.T) {
	s := createTestStore(t)
	err := s.EditSmoke(context.Background(), "missing", mustParse(t, "2023-03-15T12:00:00Z"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSmoke(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1")))
	ctx := context.Background()

	_, err := s.AddSmoke(ctx, mustParse(t, "2023-03-15T12:00:00Z"), "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSmoke(ctx, "id-1"))

	n, err := s.CountSmokes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteSmoke_NotFound(t *testing.T) {
	s := createTestStore(t)
	err := s.DeleteSmoke(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchSmokes_DescendingWithGaps(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1", "id-2", "id-3")))
	ctx := context.Background()

	// Insert out of chronological order on purpose.
	_, err := s.AddSmoke(ctx, mustParse(t, "2023-03-15T12:00:00Z"), "")
	require.NoError(t, err)
	_, err = s.AddSmoke(ctx, mustParse(t, "2023-03-15T14:30:00Z"), "")
	require.NoError(t, err)
	_, err = s.AddSmoke(ctx, mustParse(t, "2023-03-15T09:15:00Z"), "")
	require.NoError(t, err)

	got, err := s.FetchSmokes(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "id-2", got[0].ID)
	assert.Equal(t, "id-1", got[1].ID)
	assert.Equal(t, "id-3", got[2].ID)

	assert.Equal(t, 0, got[0].GapHours)
	assert.Equal(t, 2, got[1].GapHours)
	assert.Equal(t, 30, got[1].GapMinutes)
	assert.Equal(t, 2, got[2].GapHours)
	assert.Equal(t, 45, got[2].GapMinutes)
}

func TestFetchSmokes_EqualTimestampsTieBreakOnID(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-b", "id-a")))
	ctx := context.Background()

	at := mustParse(t, "2023-03-15T12:00:00Z")
	_, err := s.AddSmoke(ctx, at, "")
	require.NoError(t, err)
	_, err = s.AddSmoke(ctx, at, "")
	require.NoError(t, err)

	got, err := s.FetchSmokes(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "id-a", got[0].ID)
	assert.Equal(t, "id-b", got[1].ID)
}

func TestFetchSmokes_HalfOpenWindow(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1", "id-2", "id-3")))
	ctx := context.Background()

	for _, v := range []string{
		"2023-03-14T23:59:59Z",
		"2023-03-15T00:00:00Z",
		"2023-03-16T00:00:00Z",
	} {
		_, err := s.AddSmoke(ctx, mustParse(t, v), "")
		require.NoError(t, err)
	}

	start := mustParse(t, "2023-03-15T00:00:00Z")
	end := mustParse(t, "2023-03-16T00:00:00Z")
	got, err := s.FetchSmokes(ctx, ptr(start), ptr(end))
	require.NoError(t, err)

	// Start is inclusive, end is exclusive.
	require.Len(t, got, 1)
	assert.Equal(t, "id-2", got[0].ID)
}

func TestFetchSmokes_OpenEndedBounds(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("id-1", "id-2")))
	ctx := context.Background()

	_, err := s.AddSmoke(ctx, mustParse(t, "2023-03-14T10:00:00Z"), "")
	require.NoError(t, err)
	_, err = s.AddSmoke(ctx, mustParse(t, "2023-03-16T10:00:00Z"), "")
	require.NoError(t, err)

	cut := mustParse(t, "2023-03-15T00:00:00Z")

	onlyAfter, err := s.FetchSmokes(ctx, ptr(cut), nil)
	require.NoError(t, err)
	require.Len(t, onlyAfter, 1)
	assert.Equal(t, "id-2", onlyAfter[0].ID)

	onlyBefore, err := s.FetchSmokes(ctx, nil, ptr(cut))
	require.NoError(t, err)
	require.Len(t, onlyBefore, 1)
	assert.Equal(t, "id-1", onlyBefore[0].ID)
}

func TestFetchSmokes_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.FetchSmokes(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUUIDv7Generator_ProducesDistinctIDs(t *testing.T) {
	g := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
