package mvi

import (
	"context"
	"iter"
)

// ProcessHolder maps a single intent to a cold stream of results.
//
// Implementations must be stateless: repeated calls with equal intents are
// independent and may run concurrently. Side effects (storage, network)
// happen only while the returned sequence is being ranged, never at call
// time. Effect failures must be converted into error-carrying results; the
// sequence itself has no failure channel.
//
// The context is cancelled when the intent is superseded under the
// latest-wins discipline or when the owning store shuts down. Holders should
// pass it to every blocking operation.
type ProcessHolder[I, R any] interface {
	ProcessIntent(ctx context.Context, intent I) iter.Seq[R]
}

// ProcessFunc adapts a function to the ProcessHolder interface.
type ProcessFunc[I, R any] func(ctx context.Context, intent I) iter.Seq[R]

// ProcessIntent calls f.
func (f ProcessFunc[I, R]) ProcessIntent(ctx context.Context, intent I) iter.Seq[R] {
	return f(ctx, intent)
}

// Reducer folds one result into the previous state, producing the next.
//
// Reducers must be pure functions of (prev, result): no blocking, no I/O.
// Follow-up intents belong in a reaction (see Store.WithReaction), and
// fire-and-forget side effects such as navigation callbacks are the only
// exception tolerated inside a reducer.
type Reducer[S, R any] func(prev S, result R) S
