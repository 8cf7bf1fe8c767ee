// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RequestsTotal.WithLabelValues("POST /login", "200").Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.SignupsTotal.Inc()
	m.EmailsScheduled.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["sendlater_http_requests_total"])
	assert.True(t, names["sendlater_logins_total"])
	assert.True(t, names["sendlater_signups_total"])
	assert.True(t, names["sendlater_emails_scheduled_total"])
}

func TestServerEndpoints(t *testing.T) {
	defer goleak.VerifyNone(t)

	ready := true
	server := NewServer("127.0.0.1:0", func() bool { return ready })

	errCh, err := server.Start()
	require.NoError(t, err)
	base := "http://" + server.Addr()

	get := func(path string) (int, string) {
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	t.Run("liveness always ok", func(t *testing.T) {
		status, body := get("/healthz/liveness")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok\n", body)
	})

	t.Run("readiness follows the checker", func(t *testing.T) {
		status, _ := get("/healthz/readiness")
		assert.Equal(t, http.StatusOK, status)

		ready = false
		status, body := get("/healthz/readiness")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "not ready\n", body)
		ready = true
	})

	t.Run("metrics exposes counters", func(t *testing.T) {
		server.Metrics().SignupsTotal.Inc()

		status, body := get("/metrics")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "sendlater_signups_total")
		assert.Contains(t, body, "go_goroutines")
	})

	http.DefaultClient.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	select {
	case serveErr, ok := <-errCh:
		if ok {
			assert.NoError(t, serveErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve goroutine did not exit")
	}
}

func TestServerLifecycle(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)

	_, err := server.Start()
	require.NoError(t, err)

	t.Run("double start is rejected", func(t *testing.T) {
		_, err := server.Start()
		assert.Error(t, err)
	})

	t.Run("nil readiness checker reports ready", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz/readiness", server.Addr()))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	http.DefaultClient.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	assert.NoError(t, server.Stop(ctx))
}
