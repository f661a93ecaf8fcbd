package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/assetflow/asset-movement/models"
)

// Event types
const (
	EventRequestCreate      = "request_create"
	EventRequestUpdate      = "request_update"
	EventApprovalUpdate     = "approval_update"
	EventVerificationUpdate = "verification_update"
	EventCommentCreate      = "comment_create"
	EventNotificationCreate = "notification_create"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Topic names. A client only receives events for topics it subscribed to,
// which is how list/detail views scope the feed by foreign key.
func TopicRequests() string                 { return "requests" }
func TopicRequest(requestID uint) string    { return fmt.Sprintf("request:%d", requestID) }
func TopicNotifications(userID uint) string { return fmt.Sprintf("notifications:%d", userID) }

type client struct {
	role   string
	userID uint
	topics map[string]bool
}

// Hub holds every connected client and its topic subscriptions.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]*client),
}

// RegisterClient adds a connection. Every client starts subscribed to its
// own notification topic.
func RegisterClient(conn *websocket.Conn, userID uint, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = &client{
		role:   role,
		userID: userID,
		topics: map[string]bool{TopicNotifications(userID): true},
	}
}

// UnregisterClient drops the connection and all of its subscriptions.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// Subscribe adds a topic for the connection.
func Subscribe(conn *websocket.Conn, topic string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if c, ok := hub.clients[conn]; ok {
		c.topics[topic] = true
	}
}

// Unsubscribe removes a topic for the connection.
func Unsubscribe(conn *websocket.Conn, topic string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if c, ok := hub.clients[conn]; ok {
		delete(c.topics, topic)
	}
}

// BroadcastRequestCreate -> new request visible on list views
func BroadcastRequestCreate(request models.AssetRequest) {
	broadcast(TopicRequests(), Message{Event: EventRequestCreate, Data: request})
}

// BroadcastRequestUpdate -> status or field change on a request
func BroadcastRequestUpdate(request models.AssetRequest) {
	msg := Message{Event: EventRequestUpdate, Data: request}
	broadcast(TopicRequests(), msg)
	broadcast(TopicRequest(request.ID), msg)
}

// BroadcastApprovalUpdate -> one reviewer resolved or was created
func BroadcastApprovalUpdate(approval models.Approval) {
	broadcast(TopicRequest(approval.RequestID), Message{Event: EventApprovalUpdate, Data: approval})
}

// BroadcastVerificationUpdate -> security sign-off created or verified
func BroadcastVerificationUpdate(verification models.SecurityVerification) {
	broadcast(TopicRequest(verification.RequestID), Message{Event: EventVerificationUpdate, Data: verification})
}

// BroadcastCommentCreate -> new comment on a request thread
func BroadcastCommentCreate(comment models.RequestComment) {
	broadcast(TopicRequest(comment.RequestID), Message{Event: EventCommentCreate, Data: comment})
}

// BroadcastNotification -> delivered only to the addressed user
func BroadcastNotification(notification models.Notification) {
	broadcast(TopicNotifications(notification.UserID), Message{Event: EventNotificationCreate, Data: notification})
}

func broadcast(topic string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, c := range hub.clients {
		if !c.topics[topic] {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client (user %d): %v", c.userID, err)
		}
	}
}
