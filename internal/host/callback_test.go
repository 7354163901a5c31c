package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/config"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

var callbackConfig = config.CallbackConfig{
	Timeout:     time.Second,
	MaxAttempts: 4,
	MinBackoff:  100 * time.Millisecond,
	MaxBackoff:  250 * time.Millisecond,
}

func newTestClient(url string) (*CallbackClient, *[]time.Duration) {
	var sleeps []time.Duration
	c := NewCallbackClient(url, callbackConfig, logging.Nop())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return c, &sleeps
}

func TestCallbackClient_Report(t *testing.T) {
	var got stateReport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/jobs/42/callback", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL + "/api/jobs/42/callback")
	require.NoError(t, client.Report(context.Background(), core.JobStateRunning))
	assert.Equal(t, core.JobStateRunning, got.State)
	assert.Empty(t, *sleeps)
}

func TestCallbackClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 4 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)
	require.NoError(t, client.Report(context.Background(), core.JobStateCompleted))
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond}, *sleeps)
}

func TestCallbackClient_GivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)
	err := client.Report(context.Background(), core.JobStateRunning)
	require.Error(t, err)
	assert.Equal(t, int32(callbackConfig.MaxAttempts), calls.Load())
}

func TestCallbackClient_DoesNotRetryRejections(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"job state is final"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL)
	err := client.Report(context.Background(), core.JobStateRunning)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Contains(t, rejected.Body, "final")
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *sleeps)
}

func TestCallbackClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewCallbackClient(server.URL, callbackConfig, logging.Nop())
	client.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	err := client.Report(ctx, core.JobStateRunning)
	assert.ErrorIs(t, err, context.Canceled)
}
