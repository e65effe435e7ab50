package ws

import (
	"encoding/json"
	"sync"
)

const ChannelStoreUpdates = "store:updates"

type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans out payloads to the clients subscribed to a channel.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: map[string]map[*Client]struct{}{}}
}

func (h *Hub) Subscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscribers[channel]
	if !ok {
		subs = map[*Client]struct{}{}
		h.subscribers[channel] = subs
	}
	subs[client] = struct{}{}
	client.addChannel(channel)
}

func (h *Hub) Unsubscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.removeChannel(channel)
	h.remove(channel, client)
}

func (h *Hub) UnsubscribeAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, channel := range client.listChannels() {
		h.remove(channel, client)
	}
}

// remove expects h.mu to be held.
func (h *Hub) remove(channel string, client *Client) {
	subs, ok := h.subscribers[channel]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscribers, channel)
	}
}

func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[channel])
}

// Publish delivers payload to every subscriber of channel. The subscriber
// set is copied first so slow clients never hold the lock.
func (h *Hub) Publish(channel string, payload []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subscribers[channel]))
	for c := range h.subscribers[channel] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.send(payload)
	}
}

func (h *Hub) PublishEvent(channel string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.Publish(channel, payload)
	return nil
}
