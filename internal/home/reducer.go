package home

import (
	"log/slog"

	"github.com/roach88/smokelog/internal/mvi"
	"github.com/roach88/smokelog/internal/session"
)

// Navigator is the set of fire-and-forget navigation callbacks the home
// reducer may invoke as a side effect. Nil callbacks are ignored.
type Navigator struct {
	ToAuthentication func()
	ToStats          func()
	ToSettings       func()
}

func call(f func()) {
	if f != nil {
		f()
	}
}

// Reduce builds the reducer for the home screen.
//
// The reducer is a total function over the Result union: every variant
// produces a defined next state. On any terminal result DisplayLoading is
// cleared; on Failure the error is populated for the view to render.
func Reduce(nav Navigator) mvi.Reducer[State, Result] {
	return func(prev State, result Result) State {
		switch r := result.(type) {
		case Loading:
			next := prev
			next.DisplayLoading = true
			next.Error = nil
			return next

		case FetchSuccess:
			next := prev
			next.DisplayLoading = false
			next.Error = nil
			next.Smokes = r.Smokes
			return next

		case AddSuccess:
			next := prev
			next.DisplayLoading = false
			next.Error = nil
			added := r.Smoke
			next.LastAdded = &added
			return next

		case EditSuccess:
			next := prev
			next.DisplayLoading = false
			next.Error = nil
			next.Edited = true
			return next

		case DeleteSuccess:
			next := prev
			next.DisplayLoading = false
			next.Error = nil
			next.Deleted = true
			return next

		case Failure:
			next := prev
			next.DisplayLoading = false
			kind := r.Kind
			next.Error = &kind
			return next

		case GoToAuthentication:
			call(nav.ToAuthentication)
			next := prev
			next.DisplayLoading = false
			return next

		case NavigateToStats:
			call(nav.ToStats)
			return prev

		case NavigateToSettings:
			call(nav.ToSettings)
			return prev

		default:
			// Unreachable for a well-formed Result union.
			return prev
		}
	}
}

// NewStore wires the home feature into an MVI store.
//
// The home screen uses the concurrent-merge discipline: a fetch triggered by
// a reaction must not cancel an in-flight edit. Successful mutations react
// by re-fetching the list so the view converges on storage.
func NewStore(repo Repository, sessions session.Provider, nav Navigator, logger *slog.Logger) *mvi.Store[Intent, Result, State] {
	holder := NewProcessHolder(repo, sessions, logger)
	st := mvi.NewStore[Intent, Result, State](NewState(), holder, Reduce(nav), logger)
	st.WithReaction(func(result Result, send func(Intent) bool) {
		switch result.(type) {
		case AddSuccess, EditSuccess, DeleteSuccess:
			send(FetchSmokes{})
		}
	})
	return st
}
