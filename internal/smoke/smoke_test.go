package smoke

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWithGaps(t *testing.T) {
	smokes := []Smoke{
		{ID: "c", OccurredAt: ts("2023-03-15T14:30:00Z")},
		{ID: "b", OccurredAt: ts("2023-03-15T12:05:00Z")},
		{ID: "a", OccurredAt: ts("2023-03-14T23:50:00Z")},
	}

	got := WithGaps(smokes)

	assert.Equal(t, 0, got[0].GapHours)
	assert.Equal(t, 0, got[0].GapMinutes)

	// 14:30 - 12:05 = 2h25m
	assert.Equal(t, 2, got[1].GapHours)
	assert.Equal(t, 25, got[1].GapMinutes)

	// 12:05 - 23:50 previous day = 12h15m
	assert.Equal(t, 12, got[2].GapHours)
	assert.Equal(t, 15, got[2].GapMinutes)
}

func TestWithGaps_Empty(t *testing.T) {
	assert.Empty(t, WithGaps(nil))
	assert.Empty(t, WithGaps([]Smoke{}))
}

func TestWithGaps_SingleElement(t *testing.T) {
	got := WithGaps([]Smoke{{ID: "a", OccurredAt: ts("2023-03-15T12:00:00Z")}})
	assert.Equal(t, 0, got[0].GapHours)
	assert.Equal(t, 0, got[0].GapMinutes)
}

func TestWithGaps_EqualTimestamps(t *testing.T) {
	at := ts("2023-03-15T12:00:00Z")
	got := WithGaps([]Smoke{
		{ID: "b", OccurredAt: at},
		{ID: "a", OccurredAt: at},
	})
	assert.Equal(t, 0, got[1].GapHours)
	assert.Equal(t, 0, got[1].GapMinutes)
}

func TestWithGaps_ClampsNegativeGaps(t *testing.T) {
	// Out-of-order input must not produce negative gaps.
	got := WithGaps([]Smoke{
		{ID: "a", OccurredAt: ts("2023-03-15T10:00:00Z")},
		{ID: "b", OccurredAt: ts("2023-03-15T11:00:00Z")},
	})
	assert.Equal(t, 0, got[1].GapHours)
	assert.Equal(t, 0, got[1].GapMinutes)
}

func TestWithGaps_LongGap(t *testing.T) {
	got := WithGaps([]Smoke{
		{ID: "b", OccurredAt: ts("2023-03-17T12:00:00Z")},
		{ID: "a", OccurredAt: ts("2023-03-15T11:30:00Z")},
	})
	// 48h30m: hours are not capped at 24.
	assert.Equal(t, 48, got[1].GapHours)
	assert.Equal(t, 30, got[1].GapMinutes)
}

func TestNormalizeNote(t *testing.T) {
	assert.Equal(t, "after coffee", NormalizeNote("  after coffee\n"))
	assert.Equal(t, "", NormalizeNote("   "))

	// Combining sequence e + U+0301 folds to the precomposed form.
	assert.Equal(t, "café", NormalizeNote("café"))
}
