package realtime

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/digital-menu/utils"
)

func TestMain(m *testing.M) {
	utils.SilenceLoggers()
	os.Exit(m.Run())
}

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) messages(t *testing.T) []Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, 0, len(c.frames))
	for _, f := range c.frames {
		var msg Message
		require.NoError(t, json.Unmarshal(f, &msg))
		out = append(out, msg)
	}
	return out
}

func TestNotifyReachesOnlyOwnerSubscribers(t *testing.T) {
	hub := NewMenuHub()
	mine := &fakeConn{}
	theirs := &fakeConn{}
	hub.Register("Owner@Example.com", mine)
	hub.Register("other@example.com", theirs)

	hub.NotifyMenuChange("owner@example.com", EventItemChanged, map[string]int{"id": 7})

	got := mine.messages(t)
	require.Len(t, got, 1)
	assert.Equal(t, EventItemChanged, got[0].Event)
	assert.Equal(t, "owner@example.com", got[0].Owner)
	assert.Empty(t, theirs.messages(t))
}

func TestFailingClientIsDropped(t *testing.T) {
	hub := NewMenuHub()
	good := &fakeConn{}
	bad := &fakeConn{fail: true}
	hub.Register("owner@example.com", good)
	hub.Register("owner@example.com", bad)
	assert.Equal(t, 2, hub.Subscribers("owner@example.com"))

	hub.NotifyMenuChange("owner@example.com", EventMenuUpdated, nil)

	assert.Equal(t, 1, hub.Subscribers("owner@example.com"))
	assert.True(t, bad.closed)
	assert.Len(t, good.messages(t), 1)
}

func TestUnregisterClosesConnection(t *testing.T) {
	hub := NewMenuHub()
	conn := &fakeConn{}
	hub.Register("owner@example.com", conn)
	hub.Unregister("owner@example.com", conn)

	assert.True(t, conn.closed)
	assert.Zero(t, hub.Subscribers("owner@example.com"))

	// no subscribers is a no-op
	hub.NotifyMenuChange("owner@example.com", EventMenuUpdated, nil)
	assert.Empty(t, conn.messages(t))
}
