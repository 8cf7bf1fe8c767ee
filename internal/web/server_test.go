// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sendlater/sendlater/internal/auth"
	"github.com/sendlater/sendlater/internal/auth/authtest"
	"github.com/sendlater/sendlater/internal/mail"
	"github.com/sendlater/sendlater/internal/web"
)

func newLifecycleServer(t *testing.T) *web.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenSource()
	require.NoError(t, err)
	authSvc, err := auth.NewServiceWithLogger(
		authtest.NewAccountRepository(),
		authtest.NewSessionRepository(),
		auth.NewArgon2idHasher(),
		tokens,
		logger,
	)
	require.NoError(t, err)

	mailSvc, err := mail.NewServiceWithLogger(&memEmailRepository{}, logger)
	require.NoError(t, err)

	server, err := web.NewServer("127.0.0.1:0", authSvc, mailSvc, logger, nil)
	require.NoError(t, err)
	return server
}

func TestNewServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("requires address and services", func(t *testing.T) {
		_, err := web.NewServer("", nil, nil, logger, nil)
		assert.Error(t, err)
	})
}

func TestServerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	server := newLifecycleServer(t)

	errCh, err := server.Start()
	require.NoError(t, err)
	require.NotEmpty(t, server.Addr())

	// Double start is rejected.
	_, err = server.Start()
	assert.Error(t, err)

	// The listener answers; an unknown route is a plain 404.
	resp, err := http.Get("http://" + server.Addr() + "/nonexistent")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
	http.DefaultClient.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))

	// The serve goroutine exits cleanly.
	select {
	case serveErr, ok := <-errCh:
		if ok {
			assert.NoError(t, serveErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve goroutine did not exit")
	}

	// Stopping again is a no-op.
	assert.NoError(t, server.Stop(ctx))
}
