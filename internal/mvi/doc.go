// Package mvi implements the unidirectional Intent -> Result -> State
// pipeline shared by every feature module.
//
// A feature defines three closed type families (Intent, Result, State), a
// stateless ProcessHolder that maps one intent to a cold stream of results,
// and a pure Reducer that folds results into successive states. The Store
// ties them together: an unbounded intent queue feeds a single-writer loop
// that dispatches intents to the holder and applies every emitted result to
// the reducer exactly once, in delivery order.
//
// Two dispatch disciplines are supported:
//
//   - concurrent merge (default): every intent's result stream runs
//     independently and streams are merged in emission order. No intent
//     cancels another.
//   - latest wins: intents sharing a merge key supersede each other. A new
//     intent cancels the in-flight stream for its key, and results from the
//     superseded stream are discarded rather than delivered.
//
// The engine itself never fails: all fallibility is carried inside Result
// values. A reducer that panics is a programming error and is not recovered.
package mvi
