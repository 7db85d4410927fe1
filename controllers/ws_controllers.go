package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/durumcu/durumcu-app/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the connection and keeps it registered on the hub until
// the client goes away. Clients only listen; there is no inbound event
// traffic, the read loop just detects the disconnect.
func WSHandler(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
}
