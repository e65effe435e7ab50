package ws

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

// Handler upgrades /v1/ws connections. A client that subscribes to
// store:updates is sent the current store state right away and then every
// change the Notifier detects.
type Handler struct {
	hub    *Hub
	source SnapshotSource
}

func NewHandler(hub *Hub, source SnapshotSource) *Handler {
	return &Handler{hub: hub, source: source}
}

type clientMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	websocket.Handler(func(conn *websocket.Conn) {
		client := NewClient(conn)
		go h.writer(client)
		h.reader(ctx, client)
	}).ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) reader(ctx context.Context, client *Client) {
	defer func() {
		h.hub.UnsubscribeAll(client)
		client.close()
		_ = client.conn.Close()
	}()

	for {
		var raw string
		if err := websocket.Message.Receive(client.conn, &raw); err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			h.reply(client, errorEvent("invalid_message"))
			continue
		}
		h.handle(ctx, client, msg)
	}
}

func (h *Handler) handle(ctx context.Context, client *Client, msg clientMessage) {
	topic := subscriptionTopic(msg.Channel)
	if topic == "" {
		h.reply(client, errorEvent("unknown_channel"))
		return
	}

	switch strings.ToLower(strings.TrimSpace(msg.Action)) {
	case "subscribe":
		h.hub.Subscribe(topic, client)
		if h.source != nil {
			h.reply(client, storeEvent("store_snapshot", h.source.Load(ctx)))
		}
	case "unsubscribe":
		h.hub.Unsubscribe(topic, client)
	default:
		h.reply(client, errorEvent("unknown_action"))
	}
}

func (h *Handler) reply(client *Client, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	client.send(payload)
}

func (h *Handler) writer(client *Client) {
	for payload := range client.out {
		if err := websocket.Message.Send(client.conn, string(payload)); err != nil {
			return
		}
	}
}

func subscriptionTopic(channel string) string {
	if strings.ToLower(strings.TrimSpace(channel)) == ChannelStoreUpdates {
		return ChannelStoreUpdates
	}
	return ""
}

func errorEvent(code string) Event {
	return Event{Event: "error", Data: map[string]string{"error": code}}
}
