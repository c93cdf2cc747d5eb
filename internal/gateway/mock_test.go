package gateway

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/shelfwatch/internal/service"
)

// Call tracking must be safe to read while background refetches are still
// recording calls.
func TestMock_CallTrackingIsConcurrencySafe(t *testing.T) {
	mock := NewMock()
	ctx := context.Background()

	var writers sync.WaitGroup
	writers.Add(1)
	go func() {
		defer writers.Done()
		for i := 0; i < 100; i++ {
			_, _ = mock.ListRetailers(ctx)
			_, _ = mock.GetCategoryStats(ctx, service.StatsFilter{RetailerCode: "HP"})
			_, _ = mock.TriggerCategoryMonitor(ctx, "HP")
		}
	}()

	done := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for {
			select {
			case <-done:
				return
			default:
				_ = mock.ListRetailersCalls()
				_ = mock.StatsCalls()
				_ = mock.TriggerCalls()
			}
		}
	}()

	writers.Wait()
	close(done)
	readers.Wait()

	require.Equal(t, 100, mock.ListRetailersCalls())
	assert.Len(t, mock.StatsCalls(), 100)
	assert.Len(t, mock.TriggerCalls(), 100)
}
