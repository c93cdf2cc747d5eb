package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwatch/shelfwatch/internal/common"
	"github.com/shelfwatch/shelfwatch/internal/model"
	"github.com/shelfwatch/shelfwatch/internal/service"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestListRetailers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retailers", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode([]model.Retailer{
			{Code: "HP", Name: "HP Store", Active: true},
			{Code: "TWD", Name: "TWD Store", Active: false},
		})
	}))

	retailers, err := client.ListRetailers(context.Background())
	require.NoError(t, err)
	require.Len(t, retailers, 2)
	assert.Equal(t, "HP", retailers[0].Code)
	assert.False(t, retailers[1].Active)
}

func TestGetCategoryStats_ScopedAndUnscoped(t *testing.T) {
	var gotRetailer string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRetailer = r.URL.Query().Get("retailer")
		_, _ = w.Write([]byte(`{"retailer_stats":{"HP":{"total":50,"active":45,"inactive":5,"total_products":900}}}`))
	}))

	stats, err := client.GetCategoryStats(context.Background(), service.StatsFilter{RetailerCode: "HP"})
	require.NoError(t, err)
	assert.Equal(t, "HP", gotRetailer)
	require.Contains(t, stats, "HP")
	assert.Equal(t, 45, stats["HP"].Active)

	_, err = client.GetCategoryStats(context.Background(), service.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, gotRetailer)
}

func TestGetCategoryStats_NullPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	stats, err := client.GetCategoryStats(context.Background(), service.StatsFilter{})
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestGetCategoryChanges_Params(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/changes", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		assert.Equal(t, "HP", r.URL.Query().Get("retailer"))
		_, _ = w.Write([]byte(`[]`))
	}))

	changes, err := client.GetCategoryChanges(context.Background(), service.ChangesFilter{Days: 7, RetailerCode: "HP"})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestGetCategoryHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/health/HP", r.URL.Path)
		_, _ = w.Write([]byte(`{"retailer_code":"HP","categories":[{"category_id":"c1","name":"GPUs","active":true}]}`))
	}))

	detail, err := client.GetCategoryHealth(context.Background(), "HP")
	require.NoError(t, err)
	assert.Equal(t, "HP", detail.RetailerCode)
	require.Len(t, detail.Categories, 1)
	assert.True(t, detail.Categories[0].Active)

	_, err = client.GetCategoryHealth(context.Background(), "")
	require.Error(t, err)
}

func TestTriggerCategoryMonitor(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/monitoring/trigger", r.URL.Path)
		assert.Equal(t, "HP", r.URL.Query().Get("retailer"))
		_, _ = w.Write([]byte(`{"job_id":"job-42"}`))
	}))

	ack, err := client.TriggerCategoryMonitor(context.Background(), "HP")
	require.NoError(t, err)
	assert.Equal(t, "job-42", ack.JobID)
}

func TestServerError_IsRetryable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))

	_, err := client.ListRetailers(context.Background())
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.True(t, common.IsRetryable(err))
}

func TestClientError_IsNotRetryable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such thing", http.StatusNotFound)
	}))

	_, err := client.ListRetailers(context.Background())
	require.Error(t, err)
	assert.False(t, common.IsRetryable(err))
}

func TestUnauthorized_InvokesSessionReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	var resets int
	client, err := NewClient(Config{BaseURL: srv.URL, OnUnauthorized: func() { resets++ }})
	require.NoError(t, err)

	_, err = client.ListRetailers(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, resets)
	assert.False(t, common.IsRetryable(err))
}

func TestConnectionFailure_MapsToGatewayUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListRetailers(context.Background())
	require.ErrorIs(t, err, common.ErrGatewayUnavailable)
	assert.True(t, common.IsRetryable(err))
}

func TestListMonitoringTriggers_AlwaysEmpty(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)

	triggers, err := client.ListMonitoringTriggers(context.Background(), "HP")
	require.NoError(t, err)
	assert.NotNil(t, triggers)
	assert.Empty(t, triggers)
}

func TestTriggerCRUD_NotImplemented(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)

	createErr := client.CreateMonitoringTrigger(context.Background(), model.Trigger{})
	assert.True(t, common.IsNotImplemented(createErr))

	deleteErr := client.DeleteMonitoringTrigger(context.Background(), "t1")
	assert.True(t, common.IsNotImplemented(deleteErr))

	// Distinguishable from transport errors.
	assert.False(t, errors.Is(createErr, common.ErrGatewayUnavailable))
}
