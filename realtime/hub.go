package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/utils"
)

// Event kinds pushed to connected clients. Order events carry the full
// updated order, menu/category events are a signal to refetch.
const (
	EventNewOrder          = "newOrder"
	EventOrderUpdated      = "orderUpdated"
	EventMenuUpdated       = "menuUpdated"
	EventCategoriesUpdated = "categoriesUpdated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub holds every connected client: customer, staff and courier views alike.
// There is a single broadcast channel per process, every client receives
// every event and discards the ones it is not interested in.
type Hub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]bool),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = true
}

// UnregisterClient removes a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected clients.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastNewOrder announces a freshly placed order.
func BroadcastNewOrder(order models.Order) {
	broadcast(Message{Event: EventNewOrder, Data: order})
}

// BroadcastOrderUpdate announces a status change with the full order.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdated, Data: order})
}

// BroadcastMenuUpdate signals clients to refetch the menu.
func BroadcastMenuUpdate() {
	broadcast(Message{Event: EventMenuUpdated})
}

// BroadcastCategoriesUpdate signals clients to refetch the categories.
func BroadcastCategoriesUpdate() {
	broadcast(Message{Event: EventCategoriesUpdated})
}

// broadcast delivers best-effort: a client that errors is dropped and has to
// reconnect and refetch.
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s event: %v", msg.Event, err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s event, dropping client: %v", msg.Event, err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
