// Package home implements the tracking screen feature: listing smokes and
// adding, editing and deleting them, with session-gated mutations.
package home

import (
	"time"

	"github.com/roach88/smokelog/internal/smoke"
)

// Intent is the closed union of actions the tracking screen can trigger.
type Intent interface {
	isHomeIntent()
}

// FetchSmokes reloads the smoke list. Nil bounds leave that side of the
// half-open [From, To) window open; the zero value fetches everything.
type FetchSmokes struct {
	From *time.Time
	To   *time.Time
}

// AddSmoke logs a new smoke at the given instant.
type AddSmoke struct {
	At   time.Time
	Note string
}

// EditSmoke moves an existing smoke to a new instant.
type EditSmoke struct {
	ID string
	At time.Time
}

// DeleteSmoke removes an existing smoke.
type DeleteSmoke struct {
	ID string
}

// GoToStats navigates to the statistics screen.
type GoToStats struct{}

// GoToSettings navigates to the settings screen.
type GoToSettings struct{}

func (FetchSmokes) isHomeIntent() {}
func (AddSmoke) isHomeIntent()    {}
func (EditSmoke) isHomeIntent()   {}
func (DeleteSmoke) isHomeIntent() {}
func (GoToStats) isHomeIntent()   {}
func (GoToSettings) isHomeIntent() {}

// Result is the closed union of outcomes produced while processing a home
// intent.
type Result interface {
	isHomeResult()
}

// Loading signals that an effect is in flight.
type Loading struct{}

// FetchSuccess carries the reloaded smoke list.
type FetchSuccess struct {
	Smokes []smoke.Smoke
}

// AddSuccess carries the freshly logged smoke.
type AddSuccess struct {
	Smoke smoke.Smoke
}

// EditSuccess signals a completed edit.
type EditSuccess struct{}

// DeleteSuccess signals a completed delete.
type DeleteSuccess struct{}

// Failure carries a recoverable error outcome.
type Failure struct {
	Kind ErrorKind
}

// GoToAuthentication asks the view to present the authentication flow.
type GoToAuthentication struct{}

// NavigateToStats asks the view to present the statistics screen.
type NavigateToStats struct{}

// NavigateToSettings asks the view to present the settings screen.
type NavigateToSettings struct{}

func (Loading) isHomeResult()            {}
func (FetchSuccess) isHomeResult()       {}
func (AddSuccess) isHomeResult()         {}
func (EditSuccess) isHomeResult()        {}
func (DeleteSuccess) isHomeResult()      {}
func (Failure) isHomeResult()            {}
func (GoToAuthentication) isHomeResult() {}
func (NavigateToStats) isHomeResult()    {}
func (NavigateToSettings) isHomeResult() {}

// ErrorKind categorizes recoverable failures surfaced to the view.
type ErrorKind int

const (
	// ErrorGeneric is an effect failure (storage or network).
	ErrorGeneric ErrorKind = iota + 1
	// ErrorNotLoggedIn is a precondition failure: a mutating intent was
	// issued without an authenticated session.
	ErrorNotLoggedIn
)

// String returns the error kind name for logs and CLI output.
func (k ErrorKind) String() string {
	switch k {
	case ErrorGeneric:
		return "generic"
	case ErrorNotLoggedIn:
		return "not_logged_in"
	default:
		return "unknown"
	}
}

// State is the immutable snapshot rendered by the tracking view.
//
// Smokes is nil until the first successful fetch, then always non-nil.
// LastAdded carries the most recently logged smoke so the view can confirm
// it without diffing the list.
type State struct {
	DisplayLoading bool
	Smokes         []smoke.Smoke
	LastAdded      *smoke.Smoke
	Edited         bool
	Deleted        bool
	Error          *ErrorKind
}

// NewState returns the initial screen state.
func NewState() State {
	return State{}
}
