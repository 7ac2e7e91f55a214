// Package smoke defines the domain model for logged cigarette events.
package smoke

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Smoke is a single logged cigarette event.
//
// GapHours/GapMinutes describe the time elapsed until the next more recent
// event in a page ordered descending by OccurredAt; both are zero for the
// newest element of the page.
type Smoke struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Note       string    `json:"note,omitempty"`
	GapHours   int       `json:"gapHours"`
	GapMinutes int       `json:"gapMinutes"`
}

// WithGaps computes the gap-since-previous fields for a slice ordered
// descending by OccurredAt: gap[i] = occurredAt[i-1] - occurredAt[i].
// The input slice is modified in place and returned for convenience.
func WithGaps(smokes []Smoke) []Smoke {
	for i := range smokes {
		if i == 0 {
			smokes[i].GapHours = 0
			smokes[i].GapMinutes = 0
			continue
		}
		gap := smokes[i-1].OccurredAt.Sub(smokes[i].OccurredAt)
		if gap < 0 {
			gap = 0
		}
		smokes[i].GapHours = int(gap / time.Hour)
		smokes[i].GapMinutes = int(gap/time.Minute) % 60
	}
	return smokes
}

// NormalizeNote canonicalizes free text attached to an event before it is
// stored: surrounding whitespace is trimmed and the text is normalized to
// Unicode NFC so equal-looking notes compare equal.
func NormalizeNote(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
