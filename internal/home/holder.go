package home

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/roach88/smokelog/internal/session"
	"github.com/roach88/smokelog/internal/smoke"
)

// Repository is the slice of the event storage contract the home feature
// consumes. All methods suspend; failures propagate as returned errors and
// are converted to Failure results at the stream boundary.
type Repository interface {
	AddSmoke(ctx context.Context, occurredAt time.Time, note string) (smoke.Smoke, error)
	EditSmoke(ctx context.Context, id string, occurredAt time.Time) error
	DeleteSmoke(ctx context.Context, id string) error
	FetchSmokes(ctx context.Context, start, end *time.Time) ([]smoke.Smoke, error)
}

// ProcessHolder maps home intents to result streams.
//
// Stateless: holds only collaborators, never per-intent state, so repeated
// calls are independent and may run concurrently.
type ProcessHolder struct {
	repo     Repository
	sessions session.Provider
	logger   *slog.Logger
}

// NewProcessHolder creates the home process holder.
func NewProcessHolder(repo Repository, sessions session.Provider, logger *slog.Logger) *ProcessHolder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessHolder{repo: repo, sessions: sessions, logger: logger}
}

// ProcessIntent returns the cold result stream for one intent.
//
// Mutating intents follow the standard shape: Loading, then the effect, then
// exactly one terminal result. When no authenticated session exists the
// effect is skipped entirely and the stream is
// [Failure{ErrorNotLoggedIn}, GoToAuthentication]. Pure navigation intents
// emit exactly one terminal result and no Loading.
func (h *ProcessHolder) ProcessIntent(ctx context.Context, intent Intent) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		switch it := intent.(type) {
		case FetchSmokes:
			if !yield(Loading{}) {
				return
			}
			smokes, err := h.repo.FetchSmokes(ctx, it.From, it.To)
			if err != nil {
				h.logger.Error("fetch smokes failed", "error", err)
				yield(Failure{Kind: ErrorGeneric})
				return
			}
			yield(FetchSuccess{Smokes: smokes})

		case AddSmoke:
			if !h.loggedIn() {
				h.emitAuthRequired(yield)
				return
			}
			if !yield(Loading{}) {
				return
			}
			added, err := h.repo.AddSmoke(ctx, it.At, it.Note)
			if err != nil {
				h.logger.Error("add smoke failed", "error", err)
				yield(Failure{Kind: ErrorGeneric})
				return
			}
			yield(AddSuccess{Smoke: added})

		case EditSmoke:
			if !h.loggedIn() {
				h.emitAuthRequired(yield)
				return
			}
			if !yield(Loading{}) {
				return
			}
			if err := h.repo.EditSmoke(ctx, it.ID, it.At); err != nil {
				h.logger.Error("edit smoke failed", "id", it.ID, "error", err)
				yield(Failure{Kind: ErrorGeneric})
				return
			}
			yield(EditSuccess{})

		case DeleteSmoke:
			if !h.loggedIn() {
				h.emitAuthRequired(yield)
				return
			}
			if !yield(Loading{}) {
				return
			}
			if err := h.repo.DeleteSmoke(ctx, it.ID); err != nil {
				h.logger.Error("delete smoke failed", "id", it.ID, "error", err)
				yield(Failure{Kind: ErrorGeneric})
				return
			}
			yield(DeleteSuccess{})

		case GoToStats:
			yield(NavigateToStats{})

		case GoToSettings:
			yield(NavigateToSettings{})
		}
	}
}

func (h *ProcessHolder) loggedIn() bool {
	_, ok := h.sessions.Fetch().(session.LoggedIn)
	return ok
}

// emitAuthRequired short-circuits a mutating intent issued without a
// session: no partial work is attempted.
func (h *ProcessHolder) emitAuthRequired(yield func(Result) bool) {
	h.logger.Warn("mutating intent without session")
	if !yield(Failure{Kind: ErrorNotLoggedIn}) {
		return
	}
	yield(GoToAuthentication{})
}
