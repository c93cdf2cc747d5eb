// Package cache implements a keyed, time-aware cache for asynchronous
// gateway results. Each key holds at most one in-flight request; concurrent
// callers attach to the same flight instead of issuing duplicate calls.
// Stale values are served while a background refetch runs.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/common"
)

// Status describes an entry's lifecycle state.
type Status int

const (
	// StatusIdle means no fetch has been attempted (or the entry is gated off).
	StatusIdle Status = iota
	// StatusLoading means the first fetch for the entry is in flight.
	StatusLoading
	// StatusSuccess means the entry holds a value.
	StatusSuccess
	// StatusError means the last fetch exhausted its retry budget.
	StatusError
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher produces the value for a cache entry.
type Fetcher func(ctx context.Context) (any, error)

// Default cache tuning values.
const (
	DefaultStaleAfter   = 30 * time.Second
	DefaultReadRetry    = 3
	DefaultWriteRetry   = 2
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
)

// Options configures a single Get call.
type Options struct {
	// StaleAfter is how long a value stays fresh. Once elapsed the stale
	// value is still served while a background refetch runs. Zero means
	// DefaultStaleAfter.
	StaleAfter time.Duration
	// RefetchInterval enables passive polling while the entry has
	// subscribers. Zero disables polling.
	RefetchInterval time.Duration
	// Retry is the total attempt budget. Zero means DefaultReadRetry.
	Retry int
	// Enabled gates the fetch. When false no request is made and the entry
	// reports idle.
	Enabled bool
}

// ReadOptions returns the default options for read queries.
func ReadOptions() Options {
	return Options{StaleAfter: DefaultStaleAfter, Retry: DefaultReadRetry, Enabled: true}
}

// Key builds a cache key from a resource name and its parameters.
func Key(resource string, params ...string) string {
	if len(params) == 0 {
		return resource
	}
	return resource + ":" + strings.Join(params, ":")
}

type flight struct {
	done  chan struct{}
	value any
	err   error
}

type entry struct {
	key       string
	value     any
	err       error
	status    Status
	fetchedAt time.Time
	staleAt   time.Time

	fetch Fetcher
	opts  Options

	inflight *flight
	poll     *time.Timer

	subscribers map[int]func(key string)
	nextSubID   int
}

// Store is the process-wide query cache. One instance lives for the session.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger

	initialDelay time.Duration
	maxDelay     time.Duration

	// test seams
	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries:      make(map[string]*entry),
		logger:       slog.Default().With("component", "cache"),
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
		now:          time.Now,
		wait: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
	}
}

// Get returns the cached value for key, fetching it if absent or expired.
// A fresh value returns immediately. A stale value is returned immediately
// while a background refetch runs. Otherwise the caller blocks until the
// shared in-flight fetch settles. Errors are returned as values after the
// retry budget is exhausted, never panicked or dropped.
func (s *Store) Get(ctx context.Context, key string, fetch Fetcher, opts Options) (any, error) {
	if !opts.Enabled {
		return nil, nil
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.Retry <= 0 {
		opts.Retry = DefaultReadRetry
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	e.fetch = fetch
	e.opts = opts

	now := s.now()
	if e.status == StatusSuccess || e.status == StatusError {
		if now.Before(e.staleAt) {
			value, err := e.value, e.err
			s.mu.Unlock()
			return value, err
		}
		if e.status == StatusSuccess {
			// Serve stale, revalidate in the background.
			value := e.value
			s.startFlightLocked(e)
			s.mu.Unlock()
			return value, nil
		}
	}

	f := s.startFlightLocked(e)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		// The flight keeps running for other callers; this caller just
		// stops waiting.
		return nil, ctx.Err()
	case <-f.done:
		return f.value, f.err
	}
}

// Subscribe registers a callback invoked whenever the entry for key settles
// (success or error). It returns an unsubscribe function. Unsubscribing does
// not cancel an in-flight fetch; the entry persists for future subscribers.
func (s *Store) Subscribe(key string, fn func(key string)) func() {
	s.mu.Lock()
	e := s.entryLocked(key)
	if e.subscribers == nil {
		e.subscribers = make(map[int]func(key string))
	}
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(e.subscribers, id)
		if len(e.subscribers) == 0 && e.poll != nil {
			e.poll.Stop()
			e.poll = nil
		}
		s.mu.Unlock()
	}
}

// Invalidate marks every entry whose key starts with prefix as stale. Entries
// with active subscribers are refetched immediately; the rest refetch on
// their next Get.
func (s *Store) Invalidate(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		e.staleAt = s.now()
		if len(e.subscribers) > 0 && e.fetch != nil {
			s.startFlightLocked(e)
		}
	}
}

// Status reports the lifecycle state and last error for key.
func (s *Store) Status(key string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return StatusIdle, nil
	}
	return e.status, e.err
}

func (s *Store) entryLocked(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, status: StatusIdle}
		s.entries[key] = e
	}
	return e
}

// startFlightLocked ensures exactly one in-flight fetch exists for the entry
// and returns it. Callers must hold s.mu.
func (s *Store) startFlightLocked(e *entry) *flight {
	if e.inflight != nil {
		return e.inflight
	}
	f := &flight{done: make(chan struct{})}
	e.inflight = f
	if e.status == StatusIdle {
		e.status = StatusLoading
	}

	go s.runFlight(e, f, e.fetch, e.opts)
	return f
}

// runFlight executes the fetch with its own retry budget and publishes the
// result. The fetch is never tied to a single caller's context: other
// subscribers may still want the result after the first caller gives up.
func (s *Store) runFlight(e *entry, f *flight, fetch Fetcher, opts Options) {
	ctx := context.Background()

	var value any
	var err error
	for attempt := 1; attempt <= opts.Retry; attempt++ {
		value, err = fetch(ctx)
		if err == nil {
			break
		}
		if !common.IsRetryable(err) || attempt == opts.Retry {
			break
		}
		delay := common.Backoff(attempt, s.initialDelay, s.maxDelay, 2.0)
		s.logger.Warn("Fetch failed, retrying",
			"key", e.key,
			"attempt", attempt,
			"budget", opts.Retry,
			"delay", delay,
			"error", err)
		if waitErr := s.wait(ctx, delay); waitErr != nil {
			err = waitErr
			break
		}
	}

	s.mu.Lock()
	now := s.now()
	e.inflight = nil
	e.fetchedAt = now
	e.staleAt = now.Add(opts.StaleAfter)
	if err != nil {
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.value = value
		e.err = nil
	}
	subs := make([]func(string), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	if opts.RefetchInterval > 0 && len(e.subscribers) > 0 {
		s.schedulePollLocked(e, opts.RefetchInterval)
	}
	s.mu.Unlock()

	f.value = value
	f.err = err
	close(f.done)

	for _, fn := range subs {
		fn(e.key)
	}
}

func (s *Store) schedulePollLocked(e *entry, interval time.Duration) {
	if e.poll != nil {
		e.poll.Stop()
	}
	e.poll = time.AfterFunc(interval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(e.subscribers) == 0 || e.fetch == nil {
			e.poll = nil
			return
		}
		e.staleAt = s.now()
		s.startFlightLocked(e)
	})
}
