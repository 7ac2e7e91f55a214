package mvi

import (
	"context"
	"log/slog"
	"sync"
)

// MergeKey selects the dispatch discipline for one intent.
//
// Returning ("", false) dispatches the intent under the concurrent-merge
// discipline. Returning a non-empty key with true dispatches it latest-wins:
// a new intent with the same key cancels the in-flight stream for that key
// and discards its undelivered results.
type MergeKey[I any] func(intent I) (key string, latestWins bool)

// Reaction observes every reduced result and may send follow-up intents.
// It runs on the store's single-writer loop and must not block.
type Reaction[I, R any] func(result R, send func(I) bool)

// delivery carries one emitted result to the reducer loop, tagged with the
// merge key generation it was produced under so superseded results can be
// dropped at apply time.
type delivery[R any] struct {
	result R
	key    string
	gen    uint64
}

// Store is the reactive core of one feature screen.
//
// Intents enter through Send into an unbounded queue. The Run loop - the
// single writer - dispatches each intent to the process holder, merges the
// emitted results, and folds them through the reducer into the current
// state. The reducer is never invoked concurrently with itself; results are
// applied strictly in the order they are delivered.
//
// Thread-safety model:
//   - Send(): safe from any goroutine, never blocks
//   - Run(): must be called from exactly one goroutine
//   - State(), Updates(): safe from any goroutine
//
// The store lives for the lifetime of its owning screen; there is no
// terminal state. Stop or context cancellation shuts the loop down.
type Store[I, R, S any] struct {
	holder ProcessHolder[I, R]
	reduce Reducer[S, R]
	logger *slog.Logger

	queue    *intentQueue[I]
	results  chan delivery[R]
	done     chan struct{}
	inflight sync.WaitGroup

	mergeKey MergeKey[I]
	react    Reaction[I, R]

	genMu   sync.Mutex
	gens    map[string]uint64
	cancels map[string]context.CancelFunc

	mu    sync.RWMutex
	state S
	subs  []chan S
}

// NewStore creates a store with the given initial state, process holder and
// reducer. The default dispatch discipline is concurrent merge.
func NewStore[I, R, S any](initial S, holder ProcessHolder[I, R], reduce Reducer[S, R], logger *slog.Logger) *Store[I, R, S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[I, R, S]{
		holder:  holder,
		reduce:  reduce,
		logger:  logger,
		queue:   newIntentQueue[I](),
		results: make(chan delivery[R], 16),
		done:    make(chan struct{}),
		state:   initial,
		gens:    make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// WithLatestWins installs a merge-key function enabling the latest-wins
// discipline for the intents it selects. Must be called before Run.
func (s *Store[I, R, S]) WithLatestWins(key MergeKey[I]) *Store[I, R, S] {
	s.mergeKey = key
	return s
}

// WithReaction installs a post-reduce hook that may send follow-up intents.
// Must be called before Run.
func (s *Store[I, R, S]) WithReaction(react Reaction[I, R]) *Store[I, R, S] {
	s.react = react
	return s
}

// Send enqueues an intent for processing. Never blocks.
// Returns false if the store has been stopped.
func (s *Store[I, R, S]) Send(intent I) bool {
	return s.queue.Enqueue(intent)
}

// State returns a snapshot of the current state.
func (s *Store[I, R, S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Updates returns a channel observing state changes.
//
// The channel is conflated: it always holds the most recent state and slow
// consumers only skip intermediate values, they never block the reducer
// loop. The current state is available immediately.
func (s *Store[I, R, S]) Updates() <-chan S {
	ch := make(chan S, 1)
	s.mu.Lock()
	ch <- s.state
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Stop shuts the store down by closing the intent queue.
// Run drains already-queued intents and then returns.
func (s *Store[I, R, S]) Stop() {
	s.queue.Close()
}

// Run starts the single-writer loop. Blocks until the context is cancelled
// or Stop is called. Must be called from exactly one goroutine.
//
// Results ready for delivery take priority over queued intents so that
// state catches up before new work is dispatched.
func (s *Store[I, R, S]) Run(ctx context.Context) error {
	defer close(s.done)
	s.logger.Debug("store starting")

	for {
		select {
		case d := <-s.results:
			s.apply(d)
			continue
		default:
		}

		if intent, ok := s.queue.TryDequeue(); ok {
			s.dispatch(ctx, intent)
			continue
		}

		if s.queue.Closed() {
			s.logger.Debug("store stopping: queue closed")
			s.drain()
			return nil
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("store stopping: context cancelled")
			s.queue.Close()
			return ctx.Err()

		case d := <-s.results:
			s.apply(d)

		case <-s.queue.Wait():
			// Loop back: either an intent is ready or the queue closed.
		}
	}
}

// dispatch starts the result stream for one intent.
// Called only from the Run goroutine.
func (s *Store[I, R, S]) dispatch(ctx context.Context, intent I) {
	var key string
	var latestWins bool
	if s.mergeKey != nil {
		key, latestWins = s.mergeKey(intent)
	}

	sctx := ctx
	var gen uint64
	if latestWins && key != "" {
		s.genMu.Lock()
		if cancel := s.cancels[key]; cancel != nil {
			cancel()
		}
		s.gens[key]++
		gen = s.gens[key]
		var cancel context.CancelFunc
		sctx, cancel = context.WithCancel(ctx)
		s.cancels[key] = cancel
		s.genMu.Unlock()
	} else {
		key = ""
	}

	s.inflight.Add(1)
	go s.collect(sctx, intent, key, gen)
}

// drain applies the results of streams still in flight when the queue closed,
// so intents accepted before Stop are fully reflected in the final state.
func (s *Store[I, R, S]) drain() {
	finished := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(finished)
	}()

	for {
		select {
		case d := <-s.results:
			s.apply(d)
		case <-finished:
			for {
				select {
				case d := <-s.results:
					s.apply(d)
				default:
					return
				}
			}
		}
	}
}

// collect ranges one intent's result stream and forwards each result to the
// reducer loop. Superseded streams stop forwarding as soon as their merge
// key moves on to a newer generation.
func (s *Store[I, R, S]) collect(ctx context.Context, intent I, key string, gen uint64) {
	defer s.inflight.Done()
	for result := range s.holder.ProcessIntent(ctx, intent) {
		if key != "" && !s.current(key, gen) {
			return
		}
		select {
		case s.results <- delivery[R]{result: result, key: key, gen: gen}:
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

// apply folds one delivered result into the state and notifies observers.
// Called only from the Run goroutine, so the reducer is never concurrent
// with itself.
func (s *Store[I, R, S]) apply(d delivery[R]) {
	// A superseded result may already sit in the delivery channel when its
	// intent is cancelled; the generation check here guarantees it is
	// dropped rather than observed.
	if d.key != "" && !s.current(d.key, d.gen) {
		return
	}

	s.mu.Lock()
	next := s.reduce(s.state, d.result)
	s.state = next
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		conflatedSend(ch, next)
	}

	if s.react != nil {
		s.react(d.result, s.Send)
	}
}

func (s *Store[I, R, S]) current(key string, gen uint64) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[key] == gen
}

// conflatedSend replaces the channel's pending value with the latest state
// without ever blocking.
func conflatedSend[S any](ch chan S, state S) {
	for {
		select {
		case ch <- state:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
