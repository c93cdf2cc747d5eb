package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/shelfwatch/internal/model"
)

func testRetailers(codes ...string) []model.Retailer {
	out := make([]model.Retailer, 0, len(codes))
	for _, code := range codes {
		out = append(out, model.Retailer{Code: code, Name: code, Active: true})
	}
	return out
}

func TestNewStore_InitialState(t *testing.T) {
	s := NewStore("")

	state := s.Snapshot()
	assert.Equal(t, ModeSingle, state.Mode)
	assert.Empty(t, state.Single)
	assert.Empty(t, state.Multi)
	assert.Empty(t, state.Selected())
}

func TestSyncRetailers_BootstrapPrefersDefault(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("TWD", "HP", "GH"))

	state := s.Snapshot()
	assert.Equal(t, "HP", state.Single)
	assert.Equal(t, []string{"HP"}, state.Multi)
}

func TestSyncRetailers_BootstrapFallsBackToFirstActive(t *testing.T) {
	s := NewStore("HP")

	retailers := testRetailers("TWD", "GH")
	s.SyncRetailers(retailers)

	assert.Equal(t, "TWD", s.Snapshot().Single)
}

func TestSyncRetailers_BootstrapRunsOnce(t *testing.T) {
	s := NewStore("HP")

	s.SyncRetailers(nil) // empty list: bootstrap must wait
	assert.Empty(t, s.Snapshot().Single)

	retailers := testRetailers("HP", "TWD")
	s.SyncRetailers(retailers)
	assert.Equal(t, "HP", s.Snapshot().Single)

	// A manual choice must survive later background refreshes.
	s.SetSingle("TWD")
	s.SyncRetailers(retailers)
	assert.Equal(t, "TWD", s.Snapshot().Single)
}

func TestSetSingle_UnknownCodeIsNoOp(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD"))

	s.SetSingle("NOPE")
	assert.Equal(t, "HP", s.Snapshot().Single)
}

func TestSetSingle_SingleModeMirrorsMulti(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD", "GH"))

	s.SetSingle("TWD")
	state := s.Snapshot()
	require.Equal(t, ModeSingle, state.Mode)
	assert.Equal(t, []string{"TWD"}, state.Multi)

	// The multi set is not independently settable in single mode.
	s.SetMultiSelection([]string{"HP", "GH"})
	assert.Equal(t, []string{"TWD"}, s.Snapshot().Multi)
}

func TestSetMode_MultiSeedsAllActiveRetailers(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD", "GH"))
	s.SetSingle("TWD")

	s.SetMode(true)
	state := s.Snapshot()
	assert.Equal(t, ModeMulti, state.Mode)
	assert.Equal(t, []string{"HP", "TWD", "GH"}, state.Multi)
	// Last-known single choice is kept for continuity.
	assert.Equal(t, "TWD", state.Single)

	s.SetMode(false)
	state = s.Snapshot()
	assert.Equal(t, ModeSingle, state.Mode)
	assert.Equal(t, "HP", state.Single)
	assert.Equal(t, []string{"HP"}, state.Multi)
}

func TestSetMode_SingleWithEmptyMultiUsesDefault(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD"))
	s.SetMode(true)
	s.SetMultiSelection(nil)

	s.SetMode(false)
	assert.Equal(t, "HP", s.Snapshot().Single)
}

func TestSetMode_Idempotent(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD"))

	var events int
	unsubscribe := s.Subscribe(func(State) { events++ })
	defer unsubscribe()

	s.SetMode(false)
	s.SetMode(false)
	assert.Zero(t, events, "repeated SetMode with the current mode must not notify")

	s.SetMode(true)
	assert.Equal(t, 1, events)
	s.SetMode(true)
	assert.Equal(t, 1, events)
}

func TestSyncRetailers_DeactivatedRetailerIsDropped(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD", "GH"))
	s.SetMode(true)
	require.Equal(t, []string{"HP", "TWD", "GH"}, s.Snapshot().Multi)

	retailers := testRetailers("HP", "TWD", "GH")
	retailers[1].Active = false
	s.SyncRetailers(retailers)

	assert.Equal(t, []string{"HP", "GH"}, s.Snapshot().Multi)
}

func TestSetMultiSelection_FiltersUnknownAndInactive(t *testing.T) {
	s := NewStore("HP")
	retailers := testRetailers("HP", "TWD", "GH")
	retailers[2].Active = false
	s.SyncRetailers(retailers)
	s.SetMode(true)

	s.SetMultiSelection([]string{"GH", "TWD", "NOPE", "TWD"})
	assert.Equal(t, []string{"TWD"}, s.Snapshot().Multi)
}

func TestToggleMultiMember(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD", "GH"))
	s.SetMode(true)
	s.SetMultiSelection([]string{"HP"})

	s.ToggleMultiMember("TWD")
	assert.Equal(t, []string{"HP", "TWD"}, s.Snapshot().Multi)

	s.ToggleMultiMember("HP")
	assert.Equal(t, []string{"TWD"}, s.Snapshot().Multi)

	s.ToggleMultiMember("NOPE")
	assert.Equal(t, []string{"TWD"}, s.Snapshot().Multi)
}

func TestSubscribe_SkipsStructurallyEqualStates(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD"))

	var events []State
	unsubscribe := s.Subscribe(func(st State) { events = append(events, st) })
	defer unsubscribe()

	// Re-syncing an identical retailer list derives an identical state.
	s.SyncRetailers(testRetailers("HP", "TWD"))
	assert.Empty(t, events)

	s.SetSingle("HP") // already selected
	assert.Empty(t, events)

	s.SetSingle("TWD")
	require.Len(t, events, 1)
	assert.Equal(t, "TWD", events[0].Single)
	assert.Equal(t, []string{"TWD"}, events[0].Multi)
}

func TestEmptyRetailerList_DegradesGracefully(t *testing.T) {
	s := NewStore("HP")

	s.SetSingle("HP")
	s.SetMode(true)
	s.SetMultiSelection([]string{"HP"})
	s.ToggleMultiMember("HP")

	state := s.Snapshot()
	assert.Empty(t, state.Multi)
	assert.Empty(t, s.ActiveRetailers())
	assert.Empty(t, s.Retailers())
}

func TestStatsFor(t *testing.T) {
	s := NewStore("HP")
	s.SyncStats([]model.RetailerStats{
		{RetailerCode: "HP", ProductCount: 120},
		{RetailerCode: "TWD", ProductCount: 40},
	})

	st, ok := s.StatsFor("HP")
	require.True(t, ok)
	assert.Equal(t, 120, st.ProductCount)

	_, ok = s.StatsFor("GH")
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore("HP")
	s.SyncRetailers(testRetailers("HP", "TWD"))
	s.SetMode(true)

	state := s.Snapshot()
	require.NotEmpty(t, state.Multi)
	state.Multi[0] = "mutated"

	assert.Equal(t, []string{"HP", "TWD"}, s.Snapshot().Multi)
}
