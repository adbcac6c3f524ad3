package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cthoyt/sssom-go/database"
	"github.com/cthoyt/sssom-go/internal/config"
)

func TestListenAndServeShutdown(t *testing.T) {
	repo := database.NewMemory(nil)
	defer func() { require.NoError(t, repo.Close()) }()

	srv := NewServer(repo, config.Server{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	// give the listener a moment to come up, then ask for shutdown
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
