package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/smokelog/internal/smoke"
)

// ErrNotFound is returned when an edit or delete targets an id that does not
// exist.
var ErrNotFound = errors.New("smoke not found")

// AddSmoke inserts a new smoke event and returns it.
// The note is normalized (trimmed, NFC) before storage.
func (s *Store) AddSmoke(ctx context.Context, occurredAt time.Time, note string) (smoke.Smoke, error) {
	ev := smoke.Smoke{
		ID:         s.ids.Generate(),
		OccurredAt: occurredAt.UTC(),
		Note:       smoke.NormalizeNote(note),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO smokes (id, occurred_at, note)
		VALUES (?, ?, ?)
	`,
		ev.ID,
		ev.OccurredAt.UnixMilli(),
		ev.Note,
	)
	if err != nil {
		return smoke.Smoke{}, fmt.Errorf("add smoke: %w", err)
	}

	return ev, nil
}

// EditSmoke moves an existing smoke event to a new instant.
// Returns ErrNotFound if the id does not exist.
func (s *Store) EditSmoke(ctx context.Context, id string, occurredAt time.Time) error {
	err := s.execAffectingOne(ctx, `
		UPDATE smokes SET occurred_at = ? WHERE id = ?
	`, occurredAt.UTC().UnixMilli(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("edit smoke: %w", err)
	}
	return nil
}

// DeleteSmoke removes a smoke event.
// Returns ErrNotFound if the id does not exist.
func (s *Store) DeleteSmoke(ctx context.Context, id string) error {
	err := s.execAffectingOne(ctx, `
		DELETE FROM smokes WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete smoke: %w", err)
	}
	return nil
}

// FetchSmokes returns events inside the half-open window [start, end),
// ordered descending by occurrence time with gap-since-previous fields
// attached. A nil bound leaves that side of the window open.
//
// Ordering is deterministic: equal timestamps tie-break on id.
// Returns an empty slice (not nil) when no events match.
func (s *Store) FetchSmokes(ctx context.Context, start, end *time.Time) ([]smoke.Smoke, error) {
	query := `SELECT id, occurred_at, note FROM smokes`
	var args []any
	switch {
	case start != nil && end != nil:
		query += ` WHERE occurred_at >= ? AND occurred_at < ?`
		args = append(args, start.UTC().UnixMilli(), end.UTC().UnixMilli())
	case start != nil:
		query += ` WHERE occurred_at >= ?`
		args = append(args, start.UTC().UnixMilli())
	case end != nil:
		query += ` WHERE occurred_at < ?`
		args = append(args, end.UTC().UnixMilli())
	}
	query += ` ORDER BY occurred_at DESC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query smokes: %w", err)
	}
	defer rows.Close()

	smokes := []smoke.Smoke{}
	for rows.Next() {
		var ev smoke.Smoke
		var millis int64
		if err := rows.Scan(&ev.ID, &millis, &ev.Note); err != nil {
			return nil, fmt.Errorf("scan smoke: %w", err)
		}
		ev.OccurredAt = time.UnixMilli(millis).UTC()
		smokes = append(smokes, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate smokes: %w", err)
	}

	return smoke.WithGaps(smokes), nil
}

// CountSmokes returns the total number of logged events.
func (s *Store) CountSmokes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM smokes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count smokes: %w", err)
	}
	return n, nil
}
