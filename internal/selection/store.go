// Package selection holds the dashboard's retailer selection state machine.
//
// The store reconciles a single-retailer mode with a multi-retailer mode:
// in single mode the multi set is a derived mirror of the single choice; in
// multi mode the single choice is kept as the last-known value for
// mode-switch continuity. The multi set only ever contains active retailer
// codes. All mutations are atomic and every notification carries a fully
// settled snapshot.
package selection

import (
	"log/slog"
	"sync"

	"github.com/shelfwatch/shelfwatch/internal/model"
)

// Mode is the dashboard's retailer scoping mode.
type Mode string

const (
	// ModeSingle scopes the dashboard to one retailer.
	ModeSingle Mode = "single"
	// ModeMulti scopes the dashboard to a set of retailers.
	ModeMulti Mode = "multi"
)

// DefaultRetailerCode is the built-in fallback selection.
const DefaultRetailerCode = "HP"

// State is an immutable snapshot of the selection. Mutations always produce
// a new value; readers never observe a half-updated structure.
type State struct {
	Mode   Mode
	Single string   // last-known single choice, "" when unset
	Multi  []string // active codes only, in retailer-list order
}

// Selected returns the codes the dashboard should render data for.
func (s State) Selected() []string {
	if s.Mode == ModeSingle {
		if s.Single == "" {
			return nil
		}
		return []string{s.Single}
	}
	return s.Multi
}

// Store is the selection state machine. One instance lives per dashboard
// session; it is created at start and discarded at end, nothing persists.
type Store struct {
	mu           sync.Mutex
	state        State
	retailers    []model.Retailer
	stats        map[string]model.RetailerStats
	defaultCode  string
	bootstrapped bool

	subscribers map[int]func(State)
	nextSubID   int
	logger      *slog.Logger
}

// NewStore creates a selection store starting in single mode with no
// selection. defaultCode falls back to DefaultRetailerCode when empty.
func NewStore(defaultCode string) *Store {
	if defaultCode == "" {
		defaultCode = DefaultRetailerCode
	}
	return &Store{
		state:       State{Mode: ModeSingle},
		stats:       make(map[string]model.RetailerStats),
		defaultCode: defaultCode,
		subscribers: make(map[int]func(State)),
		logger:      slog.Default().With("component", "selection"),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Retailers returns the current retailer list.
func (s *Store) Retailers() []model.Retailer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Retailer, len(s.retailers))
	copy(out, s.retailers)
	return out
}

// ActiveRetailers returns the active retailers in list order.
func (s *Store) ActiveRetailers() []model.Retailer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Retailer
	for _, r := range s.retailers {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// StatsFor looks up the latest stats for one retailer code.
func (s *Store) StatsFor(code string) (model.RetailerStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[code]
	return st, ok
}

// Subscribe registers a callback invoked with a settled snapshot after every
// observable state change. Redundant mutations do not notify. Returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// SetSingle sets the single selection. Unknown codes are ignored: the
// store's contract is that its state is always valid, so a bad code is a
// silent no-op rather than an error.
func (s *Store) SetSingle(code string) {
	s.mu.Lock()
	if !s.knownLocked(code) {
		s.logger.Debug("Ignoring unknown retailer code", "code", code)
		s.mu.Unlock()
		return
	}
	prev := s.state.clone()
	s.state.Single = code
	s.reconcileLocked()
	s.finishLocked(prev)
}

// SetMode switches between single and multi mode. Switching to multi seeds
// the multi set with every active retailer, not just the prior single
// choice. Switching to single picks the first element of the multi set, or
// the default code when the set is empty. Calling with the current mode is
// a no-op.
func (s *Store) SetMode(multi bool) {
	s.mu.Lock()
	target := ModeSingle
	if multi {
		target = ModeMulti
	}
	if s.state.Mode == target {
		s.mu.Unlock()
		return
	}

	prev := s.state.clone()
	s.state.Mode = target
	if multi {
		s.state.Multi = s.activeCodesLocked()
	} else {
		if len(s.state.Multi) > 0 {
			s.state.Single = s.state.Multi[0]
		} else {
			s.state.Single = s.defaultCode
		}
	}
	s.reconcileLocked()
	s.finishLocked(prev)
}

// SetMultiSelection replaces the multi set. Codes are filtered to known
// active retailers; in single mode the set snaps back to the derived mirror.
func (s *Store) SetMultiSelection(codes []string) {
	s.mu.Lock()
	prev := s.state.clone()
	s.state.Multi = s.filterActiveLocked(codes)
	s.reconcileLocked()
	s.finishLocked(prev)
}

// ToggleMultiMember adds the code to the multi set if absent, removes it if
// present. Unknown codes are ignored.
func (s *Store) ToggleMultiMember(code string) {
	s.mu.Lock()
	if !s.knownLocked(code) {
		s.mu.Unlock()
		return
	}
	prev := s.state.clone()

	found := false
	next := make([]string, 0, len(s.state.Multi)+1)
	for _, c := range s.state.Multi {
		if c == code {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		next = append(next, code)
	}
	s.state.Multi = next
	s.reconcileLocked()
	s.finishLocked(prev)
}

// SyncRetailers feeds the latest retailer list into the store. The first
// non-empty list triggers the one-shot bootstrap: if nothing is selected yet
// the default code is chosen when active, else the first active retailer.
// The bootstrap never re-runs on later refreshes, so a user's manual choice
// survives background reloads. Every sync also reconciles the selection,
// dropping retailers that have since been deactivated.
func (s *Store) SyncRetailers(retailers []model.Retailer) {
	s.mu.Lock()
	prev := s.state.clone()

	s.retailers = make([]model.Retailer, len(retailers))
	copy(s.retailers, retailers)

	if !s.bootstrapped && len(s.retailers) > 0 {
		s.bootstrapped = true
		if s.state.Single == "" {
			active := s.activeCodesLocked()
			if len(active) > 0 {
				s.state.Single = active[0]
				for _, code := range active {
					if code == s.defaultCode {
						s.state.Single = s.defaultCode
						break
					}
				}
			}
		}
	}

	s.reconcileLocked()
	s.finishLocked(prev)
}

// SyncStats feeds the latest per-retailer stats into the store.
func (s *Store) SyncStats(stats []model.RetailerStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[string]model.RetailerStats, len(stats))
	for _, st := range stats {
		s.stats[st.RetailerCode] = st
	}
}

// reconcileLocked re-derives the dependent parts of the state. In single
// mode the multi set is a mirror of the single choice; in every mode the
// multi set is restricted to active codes.
func (s *Store) reconcileLocked() {
	if s.state.Mode == ModeSingle {
		if s.state.Single == "" {
			s.state.Multi = nil
			return
		}
		s.state.Multi = s.filterActiveLocked([]string{s.state.Single})
		return
	}
	s.state.Multi = s.filterActiveLocked(s.state.Multi)
}

// finishLocked unlocks and notifies subscribers if the state actually
// changed. Structural equality gates the notification so downstream
// consumers never see spurious change events.
func (s *Store) finishLocked(prev State) {
	if s.state.equal(prev) {
		s.mu.Unlock()
		return
	}
	next := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) knownLocked(code string) bool {
	for _, r := range s.retailers {
		if r.Code == code {
			return true
		}
	}
	return false
}

func (s *Store) activeCodesLocked() []string {
	return model.ActiveCodes(s.retailers)
}

// filterActiveLocked keeps only active codes, deduplicated, ordered by the
// retailer list. The ordering is what makes the multi-to-single "first
// element" rule deterministic.
func (s *Store) filterActiveLocked(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []string
	for _, r := range s.retailers {
		if r.Active && want[r.Code] {
			out = append(out, r.Code)
		}
	}
	return out
}

func (st State) clone() State {
	out := st
	if st.Multi != nil {
		out.Multi = make([]string, len(st.Multi))
		copy(out.Multi, st.Multi)
	}
	return out
}

func (st State) equal(other State) bool {
	if st.Mode != other.Mode || st.Single != other.Single {
		return false
	}
	if len(st.Multi) != len(other.Multi) {
		return false
	}
	for i := range st.Multi {
		if st.Multi[i] != other.Multi[i] {
			return false
		}
	}
	return true
}
