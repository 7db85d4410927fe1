package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/utils"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func dialTestClient(t *testing.T) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		RegisterClient(ws)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { UnregisterClient(conn) })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestBroadcastOrderUpdate(t *testing.T) {
	utils.InitLogger()
	conn := dialTestClient(t)

	order := models.Order{
		ID:          "3f2a9c1e-7b44-4d1c-9a0e-58f1a1b2c3d4",
		Status:      models.StatusPreparing,
		TotalAmount: 205,
	}
	BroadcastOrderUpdate(order)

	msg := readMessage(t, conn)
	assert.Equal(t, EventOrderUpdated, msg.Event)

	data, ok := msg.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, order.ID, data["id"])
	assert.Equal(t, "preparing", data["status"])
}

func TestSignalEventsReachEveryClient(t *testing.T) {
	utils.InitLogger()
	first := dialTestClient(t)
	second := dialTestClient(t)

	BroadcastMenuUpdate()
	BroadcastCategoriesUpdate()

	for _, conn := range []*websocket.Conn{first, second} {
		assert.Equal(t, EventMenuUpdated, readMessage(t, conn).Event)
		assert.Equal(t, EventCategoriesUpdated, readMessage(t, conn).Event)
	}
}
