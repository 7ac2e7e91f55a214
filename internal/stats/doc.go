// Package stats turns a raw slice of smoke events into time-bucketed
// histograms and rolling-window totals.
//
// Compute is a pure function: given the same events, query parameters, "now"
// instant and location it always produces an identical Stats value. Nothing
// is cached and nothing is mutated; callers compute fresh on every query.
//
// Two distinct notions of "week" coexist and must not be conflated:
//
//   - Weekly is a histogram keyed by weekday name, aggregated across the
//     whole supplied slice regardless of which week instance an event falls
//     in ("how many Wednesdays have I smoked on").
//   - TotalWeek is a rolling count over the trailing 7-day window ending
//     today, anchored to "now" rather than to the query's own window.
package stats
