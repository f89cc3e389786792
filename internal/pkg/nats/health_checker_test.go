package nats

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	connected atomic.Bool
}

func (f *fakeConn) IsConnected() bool { return f.connected.Load() }
func (f *fakeConn) IsClosed() bool    { return false }

func TestHealthChecker_TracksConnection(t *testing.T) {
	conn := &fakeConn{}
	conn.connected.Store(true)

	hc := NewHealthChecker(conn, 5*time.Millisecond)
	assert.True(t, hc.IsHealthy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hc.Start(ctx)

	conn.connected.Store(false)
	assert.Eventually(t, func() bool { return !hc.IsHealthy() }, time.Second, 5*time.Millisecond)

	hc.Stop()
	hc.Stop()
}

func TestHealthChecker_NilConn(t *testing.T) {
	hc := NewHealthChecker(nil, time.Second)
	assert.False(t, hc.IsHealthy())

	var none *HealthChecker
	assert.False(t, none.IsHealthy())
}

func TestConnect_EmptyURLDisabled(t *testing.T) {
	conn, err := Connect("", "test", nil)
	assert.NoError(t, err)
	assert.Nil(t, conn)
}
