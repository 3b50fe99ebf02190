package realtime

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/digital-menu/utils"
)

// Event types
const (
	EventMenuUpdated     = "menu_updated"
	EventCategoryChanged = "category_changed"
	EventItemChanged     = "item_changed"
	EventProfileChanged  = "profile_changed"
)

type Message struct {
	Event string      `json:"event"`
	Owner string      `json:"owner"`
	Data  interface{} `json:"data"`
}

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// MenuHub fans menu changes out to the storefront and dashboard sockets
// subscribed to one owner.
type MenuHub struct {
	clients map[string]map[Client]struct{} // owner email -> connections
	mutex   sync.Mutex
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func NewMenuHub() *MenuHub {
	return &MenuHub{clients: make(map[string]map[Client]struct{})}
}

func ownerKey(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

// Register subscribes conn to updates of owner.
func (h *MenuHub) Register(owner string, conn Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	key := ownerKey(owner)
	if h.clients[key] == nil {
		h.clients[key] = make(map[Client]struct{})
	}
	h.clients[key][conn] = struct{}{}
}

// Unregister drops and closes conn.
func (h *MenuHub) Unregister(owner string, conn Client) {
	h.mutex.Lock()
	key := ownerKey(owner)
	if set, ok := h.clients[key]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.clients, key)
		}
	}
	h.mutex.Unlock()
	_ = conn.Close()
}

// Subscribers reports how many connections follow owner.
func (h *MenuHub) Subscribers(owner string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[ownerKey(owner)])
}

// NotifyMenuChange broadcasts event for owner. Connections that fail a
// write are dropped.
func (h *MenuHub) NotifyMenuChange(owner, event string, data interface{}) {
	h.broadcast(Message{Event: event, Owner: ownerKey(owner), Data: data})
}

func (h *MenuHub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling hub message: %v", err)
		return
	}

	h.mutex.Lock()
	set := h.clients[msg.Owner]
	targets := make([]Client, 0, len(set))
	for conn := range set {
		targets = append(targets, conn)
	}
	h.mutex.Unlock()

	if len(targets) == 0 {
		return
	}
	utils.InfoLogger.Debugf("Broadcasting %s for %s to %d clients", msg.Event, msg.Owner, len(targets))

	var failed []Client
	h.writeMu.Lock()
	for _, conn := range targets {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to client: %v", msg.Event, err)
			failed = append(failed, conn)
		}
	}
	h.writeMu.Unlock()

	for _, conn := range failed {
		h.Unregister(msg.Owner, conn)
	}
}
