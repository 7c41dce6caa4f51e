package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/idlesession/core/server"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "OK")
	})
}

func waitForAddr(t *testing.T, srv *server.Server) string {
	t.Helper()

	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		_, port, err := net.SplitHostPort(addr)
		return err == nil && port != "0"
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestServer_RunServesAndShutsDown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, okHandler()))

	addr := waitForAddr(t, srv)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	cancel()
	require.NoError(t, g.Wait())

	_, err = http.Get("http://" + addr + "/")
	assert.Error(t, err)
}

func TestServer_DoubleStart(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, okHandler()) }()
	waitForAddr(t, srv)

	err := srv.Start(ctx, okHandler())
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
	assert.NoError(t, srv.Stop())
}

func TestServer_ListenFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := server.New(ln.Addr().String())
	err = srv.Run(context.Background(), okHandler())()
	assert.ErrorIs(t, err, server.ErrListen)
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	assert.NoError(t, server.New(":0").Stop())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies config", func(t *testing.T) {
		srv, err := server.NewFromConfig(server.Config{
			Addr:            "127.0.0.1:0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    20 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		}, server.WithShutdownTimeout(time.Second))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:0", srv.Addr())
	})

	t.Run("requires address", func(t *testing.T) {
		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})
}
