package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
)

func TestHubSubscribeAndPublish(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil)

	hub.Subscribe(ChannelStoreUpdates, client)
	hub.Publish(ChannelStoreUpdates, []byte(`{"event":"store_updated"}`))

	select {
	case msg := <-client.out:
		if string(msg) != `{"event":"store_updated"}` {
			t.Fatalf("unexpected payload: %s", string(msg))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for message")
	}

	hub.UnsubscribeAll(client)
	if hub.Subscribers(ChannelStoreUpdates) != 0 {
		t.Fatalf("expected no subscribers after unsubscribe")
	}
}

func TestClientDropsAfterClose(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil)
	hub.Subscribe(ChannelStoreUpdates, client)

	client.close()
	client.close()
	hub.Publish(ChannelStoreUpdates, []byte(`{}`))

	if _, open := <-client.out; open {
		t.Fatalf("expected closed client to receive nothing")
	}
}

func TestSubscriptionTopic(t *testing.T) {
	if got := subscriptionTopic(" Store:Updates "); got != ChannelStoreUpdates {
		t.Fatalf("unexpected topic: %q", got)
	}
	if got := subscriptionTopic("pool:repayments"); got != "" {
		t.Fatalf("expected unknown channel to be rejected, got %q", got)
	}
}

func nextEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case msg := <-client.out:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return ev
	default:
		t.Fatalf("expected an event")
		return Event{}
	}
}

func TestHandlerSubscribeSendsSnapshot(t *testing.T) {
	hub := NewHub()
	source := &sourceMock{snap: loan.Snapshot{Revision: "r1", Theme: loan.ThemeLight, Loans: []loan.Entity{{ID: "1"}}}}
	h := NewHandler(hub, source)
	client := NewClient(nil)
	ctx := context.Background()

	h.handle(ctx, client, clientMessage{Action: "subscribe", Channel: ChannelStoreUpdates})
	if hub.Subscribers(ChannelStoreUpdates) != 1 {
		t.Fatalf("expected subscription")
	}
	if ev := nextEvent(t, client); ev.Event != "store_snapshot" {
		t.Fatalf("expected initial snapshot, got %+v", ev)
	}

	h.handle(ctx, client, clientMessage{Action: "unsubscribe", Channel: ChannelStoreUpdates})
	if hub.Subscribers(ChannelStoreUpdates) != 0 {
		t.Fatalf("expected unsubscribe to remove client")
	}

	h.handle(ctx, client, clientMessage{Action: "subscribe", Channel: "lender:portfolio"})
	if ev := nextEvent(t, client); ev.Event != "error" {
		t.Fatalf("expected error event, got %+v", ev)
	}
	h.handle(ctx, client, clientMessage{Action: "shout", Channel: ChannelStoreUpdates})
	if ev := nextEvent(t, client); ev.Event != "error" {
		t.Fatalf("expected error event, got %+v", ev)
	}
}

type sourceMock struct {
	snap loan.Snapshot
}

func (m *sourceMock) Load(context.Context) loan.Snapshot { return m.snap }

func TestNotifierPublishesNewRevisionOnce(t *testing.T) {
	hub := NewHub()
	client := NewClient(nil)
	hub.Subscribe(ChannelStoreUpdates, client)

	source := &sourceMock{snap: loan.Snapshot{Revision: "r1", Theme: loan.ThemeLight}}
	n := NewNotifier(source, hub, time.Second, nil)
	n.lastRevision = "r1"

	if n.tick(context.Background()) {
		t.Fatalf("expected unchanged revision to be ignored")
	}

	source.snap = loan.Snapshot{
		Revision: "r2",
		Theme:    loan.ThemeDark,
		Loans:    []loan.Entity{{ID: "1"}, {ID: "2", Returned: true}},
	}
	if !n.tick(context.Background()) {
		t.Fatalf("expected new revision to be published")
	}
	if n.tick(context.Background()) {
		t.Fatalf("expected revision to be published once")
	}

	select {
	case msg := <-client.out:
		var ev struct {
			Event string `json:"event"`
			Data  struct {
				Revision string `json:"revision"`
				Theme    string `json:"theme"`
				Pending  int    `json:"pending"`
				Total    int    `json:"total"`
			} `json:"data"`
		}
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Event != "store_updated" || ev.Data.Revision != "r2" || ev.Data.Theme != "dark" || ev.Data.Pending != 1 || ev.Data.Total != 2 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("expected a published event")
	}
}

func TestNotifierRunStopsWithContext(t *testing.T) {
	n := NewNotifier(&sourceMock{}, NewHub(), 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("notifier did not stop")
	}
}
