package ui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
)

func dialHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Registration goes through the run loop; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatal("client never registered")
	}
	return hub, conn
}

func TestHub_BroadcastLive(t *testing.T) {
	hub, conn := dialHub(t)

	hub.BroadcastLive(models.LiveUpdate{
		EventType: "translator.live.update",
		SessionID: "sess-1",
		Status:    "TRANSLATING",
		Text:      "hola mun",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.LiveUpdate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Text != "hola mun" || got.Status != "TRANSLATING" {
		t.Errorf("unexpected update: %+v", got)
	}
}

func TestHub_BroadcastEntry(t *testing.T) {
	hub, conn := dialHub(t)

	hub.BroadcastEntry(models.CommittedEntry{
		EventType: "translator.transcript.committed",
		SessionID: "sess-1",
		EntryID:   7,
		Text:      "hola mundo.",
		Silence:   true,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.CommittedEntry
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.EntryID != 7 || !got.Silence {
		t.Errorf("unexpected entry: %+v", got)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, conn := dialHub(t)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Error("client never unregistered after close")
	}
}
