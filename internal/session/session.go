// Package session defines the authentication session contract consumed by
// process holders to gate mutating operations.
package session

// User identifies an authenticated account.
type User struct {
	ID          string
	Email       string
	DisplayName string
}

// Session is the closed union of authentication states.
// Exactly two variants exist: Anonymous and LoggedIn.
type Session interface {
	isSession()
}

// Anonymous is the session of an unauthenticated caller.
type Anonymous struct{}

func (Anonymous) isSession() {}

// LoggedIn is the session of an authenticated caller.
type LoggedIn struct {
	User User
}

func (LoggedIn) isSession() {}

// Provider supplies the current session. Queried synchronously by process
// holders before attempting a mutating effect.
type Provider interface {
	Fetch() Session
}

// StaticProvider returns a fixed session. Backs the config-file user block
// in the CLI and fakes in tests.
type StaticProvider struct {
	Session Session
}

// Fetch returns the configured session, or Anonymous when unset.
func (p StaticProvider) Fetch() Session {
	if p.Session == nil {
		return Anonymous{}
	}
	return p.Session
}
