package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/auth"
	"github.com/dmitrijs2005/expensekeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	dir := t.TempDir()
	c.DatabaseDSN = "file:" + filepath.Join(dir, "app.db") + "?_pragma=busy_timeout(5000)"
	c.LedgerDir = filepath.Join(dir, "ledgers")
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewTokens(t *testing.T) {
	c := testConfig(t)
	assert.IsType(t, &auth.HMACTokens{}, newTokens(c))

	c.TokenBackend = config.TokenBackendJWT
	assert.IsType(t, &auth.JWTTokens{}, newTokens(c))
}

func TestOpenDatabase(t *testing.T) {
	c := testConfig(t)
	db, rm, err := OpenDatabase(context.Background(), c)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", rm.DriverName())

	c.DatabaseDriver = "mysql"
	_, _, err = OpenDatabase(context.Background(), c)
	assert.Error(t, err)
}

func TestNewRegistry_Layouts(t *testing.T) {
	c := testConfig(t)
	db, rm, err := OpenDatabase(context.Background(), c)
	require.NoError(t, err)
	defer db.Close()

	r, err := newRegistry(c, db, rm, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, r.Close())

	c.LedgerLayout = config.LedgerLayoutPerUser
	r, err = newRegistry(c, db, rm, logging.Nop())
	require.NoError(t, err)
	l, err := r.For(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.UserID())
	require.NoError(t, r.Close())
}

func TestNewApp_InvalidConfig(t *testing.T) {
	c := testConfig(t)
	c.SecretKey = ""
	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
