package status

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/scene"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m Message
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestWatchPublishesEditorEvents(t *testing.T) {
	h := NewHub()
	defer h.Close()
	e := editor.New()
	unwatch := h.Watch(e)
	conn := dial(t, h)

	g := scene.NewGroup("G")
	require.NoError(t, e.AddObject(g, nil, nil))

	// add emits graph, selection and history in that order
	m := read(t, conn)
	assert.Equal(t, TypeSceneGraph, m.Type)
	assert.Equal(t, []string{e.Scene().UUID.String()}, m.Nodes)

	m = read(t, conn)
	assert.Equal(t, TypeSelection, m.Type)
	assert.Equal(t, []string{g.UUID.String()}, m.Nodes)

	m = read(t, conn)
	assert.Equal(t, TypeHistory, m.Type)
	assert.Contains(t, m.Command, "Add")

	require.NoError(t, e.SetProperty(g, "Visible", false, editor.NoHistory))
	m = read(t, conn)
	assert.Equal(t, TypeObjects, m.Type)
	assert.Equal(t, "Visible", m.Property)

	unwatch()
	assert.Equal(t, 0, e.ObjectsChanged.Len())
}

func TestLateClientGetsLastMessage(t *testing.T) {
	h := NewHub()
	defer h.Close()
	h.Publish(&Message{Type: TypeHistory, Command: "first"})
	require.Eventually(t, func() bool {
		h.lock.Lock()
		defer h.lock.Unlock()
		return h.lastMessage != nil
	}, time.Second, 5*time.Millisecond)

	conn := dial(t, h)
	assert.Equal(t, "first", read(t, conn).Command)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h := NewHub()
	defer h.Close()
	conn := dial(t, h)
	conn.Close()
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
}
