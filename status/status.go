// Package status pushes editor notifications to websocket clients.
package status

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

var log = logrus.WithField("pkg", "status")

const (
	TypeSelection  = "selection"
	TypeSceneGraph = "scenegraph"
	TypeObjects    = "objects"
	TypeHistory    = "history"
)

// Message is the JSON pushed to clients. Nodes holds UUIDs.
type Message struct {
	Type     string    `json:"type"`
	Nodes    []string  `json:"nodes"`
	Property string    `json:"property,omitempty"`
	Command  string    `json:"command,omitempty"`
	Time     time.Time `json:"time"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second)); err != nil {
				log.Errorf("ws set deadline error: %v", err)
				return
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Errorf("ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Errorf("ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames and notices the client going away.
func (c *client) readPump() {
	defer func() {
		c.hub.lock.Lock()
		defer c.hub.lock.Unlock()
		delete(c.hub.clients, c)
		close(c.send)
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans messages out to every connected client. A client whose queue is
// full is dropped.
type Hub struct {
	broadcast chan *Message
	done      chan struct{}

	lock        sync.Mutex
	clients     map[*client]bool
	lastMessage []byte
}

func NewHub() *Hub {
	h := &Hub{
		broadcast: make(chan *Message, 64),
		done:      make(chan struct{}),
		clients:   make(map[*client]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case m := <-h.broadcast:
			data, err := json.Marshal(m)
			if err != nil {
				log.Errorf("marshal message error: %v", err)
				continue
			}
			h.lock.Lock()
			h.lastMessage = data
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					log.Warnf("client %v is too slow, dropped", c.conn.RemoteAddr())
					delete(h.clients, c)
					c.conn.Close()
				}
			}
			h.lock.Unlock()
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Close() { close(h.done) }

func (h *Hub) registerClient(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.clients[c] = true
	if h.lastMessage != nil {
		c.send <- h.lastMessage
	}
}

func (h *Hub) unregisterClient(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.clients, c)
}

func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Publish queues m without waiting for the clients.
func (h *Hub) Publish(m *Message) {
	if m.Time.IsZero() {
		m.Time = time.Now()
	}
	select {
	case h.broadcast <- m:
	default:
		log.Warnf("broadcast queue is full, %s message dropped", m.Type)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("ws upgrade error: %v", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 32)}
	h.registerClient(c)
	go c.writePump()
	go c.readPump()
}

func uuids(nodes []scene.Node) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.AsObject().UUID.String()
	}
	return result
}

// Watch publishes every notification of e. The returned function
// disconnects the hub again.
func (h *Hub) Watch(e *editor.Editor) (unwatch func()) {
	disconnects := []func(){
		e.SelectionChanged.Connect(func(nodes []scene.Node) {
			h.Publish(&Message{Type: TypeSelection, Nodes: uuids(nodes)})
		}),
		e.SceneGraphChanged.Connect(func(s *scene.Scene) {
			h.Publish(&Message{Type: TypeSceneGraph, Nodes: uuids([]scene.Node{s})})
		}),
		e.ObjectsChanged.Connect(func(c editor.ObjectsChange) {
			h.Publish(&Message{Type: TypeObjects, Nodes: uuids(c.Nodes), Property: c.Property})
		}),
		e.History().Changed.Connect(func(cmd history.Command) {
			m := &Message{Type: TypeHistory, Nodes: []string{}}
			if cmd != nil {
				m.Command = cmd.String()
			}
			h.Publish(m)
		}),
	}
	return func() {
		for _, d := range disconnects {
			d()
		}
	}
}
