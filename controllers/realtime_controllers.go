package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/assetflow/asset-movement/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Control frames sent by the client to scope its feed.
type subscribeMessage struct {
	Action string `json:"action"` // subscribe | unsubscribe
	Topic  string `json:"topic"`
}

// RealtimeHandler -> websocket endpoint. The connection starts with the
// viewer's own notification topic; list/detail views add and remove topics
// as they mount and unmount. Everything is dropped on disconnect.
func RealtimeHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := currentRole(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, userID, role)
	defer realtime.UnregisterClient(ws)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg subscribeMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Topic == "" {
			continue
		}
		switch msg.Action {
		case "subscribe":
			realtime.Subscribe(ws, msg.Topic)
		case "unsubscribe":
			realtime.Unsubscribe(ws, msg.Topic)
		}
	}
}
